package records

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const header = "category,name,item,latitude,longitude,address,website,phone\n"

func TestSplitFields_QuotedComma(t *testing.T) {
	got := splitFields(`cat,"Name, Inc.",item,1.0,2.0,addr,site,555-0100`)
	want := []string{"cat", "Name, Inc.", "item", "1.0", "2.0", "addr", "site", "555-0100"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSplitFields_TrimsAndDropsQuotes(t *testing.T) {
	got := splitFields(`  a , "b"c ,"",d`)
	want := []string{"a", "bc", "", "d"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParse_QuotedNameYieldsOneRecord(t *testing.T) {
	text := header + `cat,"Name, Inc.",item,1.0,2.0,addr,site,555-0100`
	recs := slices.Collect(Parse(text, DefaultSchema))
	if len(recs) != 1 {
		t.Fatalf("records=%d want 1", len(recs))
	}
	r := recs[0]
	if r.Name != "Name, Inc." {
		t.Fatalf("name=%q", r.Name)
	}
	if r.Category != "cat" || r.Item != "item" || r.Latitude != 1.0 || r.Longitude != 2.0 ||
		r.Address != "addr" || r.Website != "site" || r.Phone != "555-0100" {
		t.Fatalf("positional fields not intact: %+v", r)
	}
}

func TestParse_DropsShortAndBlankLines(t *testing.T) {
	text := header +
		"a,b,c,d,e\n" +
		"\n" +
		"food,Pantry,bread,41.88,-87.63,1 Main St,example.org,555\n" +
		"   \n"
	recs := slices.Collect(Parse(text, DefaultSchema))
	if len(recs) != 1 || recs[0].Name != "Pantry" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestParse_SevenFieldsAccepted_PhoneEmpty(t *testing.T) {
	text := header + "food,Pantry,bread,41.88,-87.63,1 Main St,example.org"
	recs := slices.Collect(Parse(text, DefaultSchema))
	if len(recs) != 1 {
		t.Fatalf("records=%d want 1", len(recs))
	}
	if recs[0].Phone != "" {
		t.Fatalf("phone=%q want empty", recs[0].Phone)
	}
}

func TestParse_SkipsHeaderEvenWhenItLooksLikeData(t *testing.T) {
	text := "food,Header Row,x,1,2,a,w,p\nfood,Real,x,3,4,a,w,p\r\n"
	recs := slices.Collect(Parse(text, DefaultSchema))
	if len(recs) != 1 || recs[0].Name != "Real" || recs[0].Phone != "p" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestParse_DropsNonNumericCoordinates(t *testing.T) {
	text := header + "food,Nowhere,x,n/a,-87.6,a,w,p\n"
	if n := len(slices.Collect(Parse(text, DefaultSchema))); n != 0 {
		t.Fatalf("records=%d want 0", n)
	}
}

func TestParse_Restartable(t *testing.T) {
	text := header + "food,A,x,1,2,a,w,p\nfood,B,x,3,4,a,w,p\n"
	seq := Parse(text, DefaultSchema)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 2 || !slices.Equal(first, second) {
		t.Fatalf("sequence not restartable: %v vs %v", first, second)
	}

	// early break must stop the scan
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("break yielded %d", n)
	}
}

func TestSchemaFromHeader_ReorderedColumns(t *testing.T) {
	s, err := SchemaFromHeader(`Phone, Website, "Address", Lng, Lat, Item, Name, Category`)
	if err != nil {
		t.Fatalf("SchemaFromHeader: %v", err)
	}
	text := "Phone,Website,Address,Lng,Lat,Item,Name,Category\n" +
		`555,example.org,"1 Main St, Chicago",-87.6,41.8,bread,Pantry,food`
	recs := slices.Collect(Parse(text, s))
	if len(recs) != 1 {
		t.Fatalf("records=%d want 1", len(recs))
	}
	r := recs[0]
	if r.Name != "Pantry" || r.Category != "food" || r.Latitude != 41.8 || r.Longitude != -87.6 ||
		r.Address != "1 Main St, Chicago" || r.Phone != "555" {
		t.Fatalf("header mapping wrong: %+v", r)
	}
}

func TestSchemaFromHeader_MissingColumnsFailLoudly(t *testing.T) {
	_, err := SchemaFromHeader("id,category,name,notes,latitude,address")
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err=%v want ErrSchemaMismatch", err)
	}
	for _, col := range []string{"longitude", "website", "phone"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("error %q does not name missing column %q", err, col)
		}
	}
	if strings.Contains(err.Error(), "item") {
		t.Fatalf("error %q names optional column item", err)
	}
}

func TestSchemaFromHeader_ExtraLeadingColumnWithoutItem(t *testing.T) {
	text := "ID,Resource,Name,Latitude,Longitude,Address,Website,Phone
" +
		"17,Food,Joe's Pantry,41.88,-87.63,1 Main St,example.org,555
"
	seq, err := ParseAuto(text)
	if err != nil {
		t.Fatalf("ParseAuto: %v", err)
	}
	recs := slices.Collect(seq)
	if len(recs) != 1 {
		t.Fatalf("records=%d want 1", len(recs))
	}
	r := recs[0]
	if r.Category != "Food" || r.Name != "Joe's Pantry" || r.Item != "" ||
		r.Latitude != 41.88 || r.Longitude != -87.63 || r.Phone != "555" {
		t.Fatalf("header mapping wrong: %+v", r)
	}
}

func TestResolveSchema_FallsBackToDefault(t *testing.T) {
	s, err := ResolveSchema("ID,Resource,Name,Lat,Lon\nrow")
	if err == nil {
		t.Fatal("expected header mismatch")
	}
	if s != DefaultSchema {
		t.Fatalf("schema=%v want DefaultSchema", s)
	}

	seq, err := ParseAuto(header + "food,A,x,1,2,a,w,p\n")
	if err != nil {
		t.Fatalf("ParseAuto: %v", err)
	}
	if n := len(slices.Collect(seq)); n != 1 {
		t.Fatalf("ParseAuto records=%d want 1", n)
	}

	seq, err = ParseAuto("Resource,Name,Lat\nfood,A,x,1,2,a,w,p\n")
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err=%v want ErrSchemaMismatch", err)
	}
	if n := len(slices.Collect(seq)); n != 1 {
		t.Fatalf("positional fallback records=%d want 1", n)
	}
}

func TestCollect_EmptyIsNonNil(t *testing.T) {
	got := Collect(Parse(header, DefaultSchema))
	if got == nil || len(got) != 0 {
		t.Fatalf("Collect=%v want empty non-nil", got)
	}
}
