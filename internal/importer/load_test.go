package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/S-e-t/SimpleExtensions/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

func mustSpecs(t *testing.T, s string) []ColumnSpec {
	t.Helper()
	specs, err := ParseSpecs(s)
	if err != nil {
		t.Fatalf("ParseSpecs(%q): %v", s, err)
	}
	return specs
}

// ----------------------------------------------------------------------------
// Load Tests
// ----------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	input := "\ufeffName,ID,Price,Extra\n" +
		"Ann,1,$10.50,x\n" +
		"Bob,two,,y\n" +
		`="007",3,(2.25),z` + "\n"

	tbl, err := Load(context.Background(), strings.NewReader(input),
		mustSpecs(t, "id:int,name:string,price:decimal?"), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(tbl.Columns()); got != 3 {
		t.Fatalf("columns = %d, want 3", got)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}

	first := tbl.Row(0)
	if first.Value("id") != int32(1) || first.Value("name") != "Ann" {
		t.Errorf("row 0 = %v", first.Values())
	}
	if d, ok := first.Value("price").(decimal.Decimal); !ok || !d.Equal(decimal.RequireFromString("10.5")) {
		t.Errorf("row 0 price = %v", first.Value("price"))
	}

	second := tbl.Row(1)
	if second.Value("id") != int32(0) {
		t.Errorf("row 1 id = %v, want soft default 0", second.Value("id"))
	}
	if !second.IsNull("price") {
		t.Errorf("row 1 price = %v, want Null", second.Value("price"))
	}

	third := tbl.Row(2)
	if third.Value("name") != "007" {
		t.Errorf("row 2 name = %q, want Excel wrapper stripped", third.Value("name"))
	}
	if d, _ := third.Value("price").(decimal.Decimal); !d.Equal(decimal.RequireFromString("-2.25")) {
		t.Errorf("row 2 price = %v, want -2.25", third.Value("price"))
	}
}

func TestLoad_ShortRowsAndInvalidUTF8(t *testing.T) {
	input := "a,b\nx\xff\n"

	tbl, err := Load(context.Background(), strings.NewReader(input),
		mustSpecs(t, "a:string,b:string?"), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	row := tbl.Row(0)
	if got := row.Value("a"); got != "x\ufffd" {
		t.Errorf("a = %q, want invalid byte replaced", got)
	}
	if !row.IsNull("b") {
		t.Errorf("b = %v, want Null for missing field", row.Value("b"))
	}
}

func TestLoad_Options(t *testing.T) {
	t.Run("legacy encoding", func(t *testing.T) {
		raw, err := charmap.Windows1252.NewEncoder().String("name\ncafé\n")
		if err != nil {
			t.Fatal(err)
		}
		tbl, err := Load(context.Background(), strings.NewReader(raw),
			mustSpecs(t, "name:string"), Options{Encoding: charmap.Windows1252})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got := tbl.Row(0).Value("name"); got != "café" {
			t.Errorf("name = %q, want café", got)
		}
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		tbl, err := Load(context.Background(), strings.NewReader("n;d\n1;2,5\n"),
			mustSpecs(t, "n:long,d:double"), Options{Comma: ';'})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got := tbl.Row(0).Value("d"); got != 2.5 {
			t.Errorf("d = %v, want 2.5", got)
		}
	})

	t.Run("row limit", func(t *testing.T) {
		_, err := Load(context.Background(), strings.NewReader("n\n1\n2\n3\n"),
			mustSpecs(t, "n:int"), Options{MaxRows: 2})
		if !errors.Is(err, ErrTooManyRows) {
			t.Errorf("err = %v, want ErrTooManyRows", err)
		}
	})

	t.Run("row limit reached exactly", func(t *testing.T) {
		tbl, err := Load(context.Background(), strings.NewReader("n\n1\n2\n"),
			mustSpecs(t, "n:int"), Options{MaxRows: 2})
		if err != nil || tbl.Len() != 2 {
			t.Errorf("Load = %v rows, %v; want 2 rows", tbl.Len(), err)
		}
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		specs   []ColumnSpec
		wantErr error
	}{
		{name: "no specs", input: "a\n1\n", specs: nil, wantErr: ErrNoColumns},
		{name: "empty input", input: "", specs: []ColumnSpec{{Name: "a", Kind: KindInt}}, wantErr: ErrMissingHeader},
		{name: "missing column", input: "a\n1\n", specs: []ColumnSpec{{Name: "b", Kind: KindInt}}, wantErr: ErrMissingColumn},
		{name: "duplicate spec", input: "a\n1\n", specs: []ColumnSpec{{Name: "a", Kind: KindInt}, {Name: "A", Kind: KindInt}}, wantErr: table.ErrDuplicateColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), strings.NewReader(tt.input), tt.specs, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, strings.NewReader("a\n1\n"), mustSpecs(t, "a:int"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
