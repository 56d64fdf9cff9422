package extractor

import (
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/beevik/etree"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func docFromString(t *testing.T, s string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("parsing test document: %v", err)
	}
	return doc
}

// --- JATS ---

const jatsArticle = `<article article-type="research-article">
<front><article-meta/><journal-meta/></front>
<body>
<sec><title>Introduction</title>
<p>Transformers were introduced by <xref ref-type="bibr" rid="b1">[1]</xref>
and refined by <xref ref-type="bibr" rid="b2">[2]</xref>.</p>
</sec>
</body>
<back>
<ref-list>
<ref id="b1"><label>1.</label><mixed-citation>Vaswani A. Attention is all you need. 2017.</mixed-citation></ref>
<ref id="b2"><label>2</label><element-citation><article-title>BERT</article-title><year>2019</year></element-citation></ref>
<ref id="b3"><mixed-citation>Unlabeled entry. 2020.</mixed-citation></ref>
<ref id="b4"><label>4</label></ref>
</ref-list>
</back>
</article>`

func TestJATSParseBibliography(t *testing.T) {
	x := ForSchema(types.SchemaJATS, docFromString(t, jatsArticle))
	bib := x.ParseBibliography()

	want := map[string]string{
		"1":  "Vaswani A. Attention is all you need. 2017.",
		"2":  "BERT 2019",
		"b3": "Unlabeled entry. 2020.",
	}
	if len(bib) != len(want) {
		t.Fatalf("got %d entries %v, want %d", len(bib), bib, len(want))
	}
	for key, wantVal := range want {
		if bib[key] != wantVal {
			t.Errorf("bib[%q] = %q, want %q", key, bib[key], wantVal)
		}
	}
	// b4 has a label but no citation element and must be skipped.
	if _, ok := bib["4"]; ok {
		t.Error("entry without citation element should be skipped")
	}
}

func TestJATSExtractCleanText(t *testing.T) {
	x := ForSchema(types.SchemaJATS, docFromString(t, jatsArticle))
	text := x.ExtractCleanText()

	if !strings.Contains(text, "Transformers were introduced by") {
		t.Errorf("clean text missing body content: %q", text)
	}
	if strings.Contains(text, "Vaswani") {
		t.Errorf("clean text contains bibliography content: %q", text)
	}
	// Whitespace must be collapsed.
	if strings.Contains(text, "  ") || strings.Contains(text, "\n") {
		t.Errorf("clean text not normalized: %q", text)
	}
}

func TestJATSCleanTextExcludesInlineRefList(t *testing.T) {
	// A ref-list inside the body must still be stripped.
	xml := `<article><body>
<p>Kept sentence.</p>
<ref-list><ref id="b1"><mixed-citation>Dropped entry.</mixed-citation></ref></ref-list>
</body></article>`
	x := ForSchema(types.SchemaJATS, docFromString(t, xml))
	got := x.ExtractCleanText()
	want := "Kept sentence."
	if got != want {
		t.Errorf("clean text mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestJATSExtractPointers(t *testing.T) {
	x := ForSchema(types.SchemaJATS, docFromString(t, jatsArticle))
	ptrs := x.ExtractPointers()

	if len(ptrs) != 2 {
		t.Fatalf("got %d pointers, want 2: %+v", len(ptrs), ptrs)
	}
	if ptrs[0].TargetID != "b1" || ptrs[0].CitationText != "[1]" {
		t.Errorf("pointer[0] = %+v, want target b1 text [1]", ptrs[0])
	}
	if !strings.Contains(ptrs[0].Context, "Transformers were introduced by") {
		t.Errorf("pointer[0] context = %q, want containing sentence", ptrs[0].Context)
	}
	if ptrs[0].TagName != "xref" {
		t.Errorf("pointer[0] tag = %q, want xref", ptrs[0].TagName)
	}
	if ptrs[0].TagAttrs["rid"] != "b1" {
		t.Errorf("pointer[0] attrs = %v, want rid=b1", ptrs[0].TagAttrs)
	}
}

func TestJATSPointersMixedIdioms(t *testing.T) {
	// ref[type=bibr] markers fill in targets the xref pass missed, and
	// shared targets are not re-emitted.
	xml := `<article><body>
<p>First <xref ref-type="bibr" rid="b1">[1]</xref>.</p>
<p>Second <ref type="bibr" target="#b2">[2]</ref>.</p>
<p>Repeat <ref type="bibr" target="#b1">[1]</ref>.</p>
</body></article>`
	x := ForSchema(types.SchemaJATS, docFromString(t, xml))
	ptrs := x.ExtractPointers()

	if len(ptrs) != 2 {
		t.Fatalf("got %d pointers, want 2: %+v", len(ptrs), ptrs)
	}
	if ptrs[0].TargetID != "b1" || ptrs[1].TargetID != "b2" {
		t.Errorf("targets = %q, %q, want b1, b2", ptrs[0].TargetID, ptrs[1].TargetID)
	}
}

// --- TEI ---

const teiArticle = `<TEI xmlns="http://www.tei-c.org/ns/1.0">
<teiHeader/>
<text>
<body>
<div><p>Datasets were deposited <ref target="#b0">(Smith et al., 2020)</ref>
and reused <ref target="#b1">(Jones, 2019)</ref>. See also <ref target="#b2"/>.</p></div>
</body>
<back>
<div><listBibl>
<biblStruct xml:id="b0"><note type="raw_reference">Smith et al. Ocean data. 2020.</note></biblStruct>
<biblStruct xml:id="b1"><note type="raw_reference">Jones. Climate data. 2019.</note></biblStruct>
<biblStruct xml:id="b2"><note type="raw_reference">Lee. Gene data. 2021.</note></biblStruct>
<biblStruct xml:id="b3"/>
</listBibl></div>
</back>
</text>
</TEI>`

func TestTEIParseBibliography(t *testing.T) {
	x := ForSchema(types.SchemaTEI, docFromString(t, teiArticle))
	bib := x.ParseBibliography()

	if len(bib) != 3 {
		t.Fatalf("got %d entries %v, want 3", len(bib), bib)
	}
	if bib["b0"] != "Smith et al. Ocean data. 2020." {
		t.Errorf("bib[b0] = %q", bib["b0"])
	}
	// b3 has no raw_reference note and must be skipped.
	if _, ok := bib["b3"]; ok {
		t.Error("entry without raw_reference note should be skipped")
	}
}

func TestTEIExtractCleanText(t *testing.T) {
	x := ForSchema(types.SchemaTEI, docFromString(t, teiArticle))
	text := x.ExtractCleanText()

	if !strings.Contains(text, "Datasets were deposited") {
		t.Errorf("clean text missing body content: %q", text)
	}
	if strings.Contains(text, "Ocean data") {
		t.Errorf("clean text contains bibliography content: %q", text)
	}
}

func TestTEIExtractPointers(t *testing.T) {
	x := ForSchema(types.SchemaTEI, docFromString(t, teiArticle))
	ptrs := x.ExtractPointers()

	if len(ptrs) != 3 {
		t.Fatalf("got %d pointers, want 3: %+v", len(ptrs), ptrs)
	}
	if ptrs[0].CitationText != "(Smith et al., 2020)" {
		t.Errorf("pointer[0] text = %q", ptrs[0].CitationText)
	}
	// The empty ref synthesizes display text from its target.
	if ptrs[2].TargetID != "b2" || ptrs[2].CitationText != "[b2]" {
		t.Errorf("pointer[2] = %+v, want target b2 text [b2]", ptrs[2])
	}
}

func TestTEIPtrFallback(t *testing.T) {
	xml := `<TEI><text><body>
<p>Cited <ref target="#b0">(A, 2020)</ref> and <ptr target="#b1"/> and
again <ptr target="#b0"/>.</p>
<p>Not a citation <ref target="http://example.com">link</ref>.</p>
</body></text></TEI>`
	x := ForSchema(types.SchemaTEI, docFromString(t, xml))
	ptrs := x.ExtractPointers()

	if len(ptrs) != 2 {
		t.Fatalf("got %d pointers, want 2: %+v", len(ptrs), ptrs)
	}
	if ptrs[1].TargetID != "b1" || ptrs[1].CitationText != "[b1]" {
		t.Errorf("pointer[1] = %+v, want target b1 text [b1]", ptrs[1])
	}
}

// --- Wiley ---

const wileyArticle = `<component xmlns="http://www.wiley.com/namespaces/wiley" type="serialArticle">
<body>
<p>As reported <link href="#wbib1">[1]</link> and elsewhere
<xref ref-type="bibr" rid="wbib2">[2]</xref>.</p>
</body>
<component type="references">
<bib xml:id="wbib1"><citation>Brown T. Models. 2020.</citation></bib>
<bib xml:id="wbib2"><citation-alternatives><citation>Devlin J. BERT. 2019.</citation></citation-alternatives></bib>
<bib xml:id="wbib3"/>
</component>
</component>`

func TestWileyParseBibliography(t *testing.T) {
	x := ForSchema(types.SchemaWiley, docFromString(t, wileyArticle))
	bib := x.ParseBibliography()

	if len(bib) != 2 {
		t.Fatalf("got %d entries %v, want 2", len(bib), bib)
	}
	if bib["wbib1"] != "Brown T. Models. 2020." {
		t.Errorf("bib[wbib1] = %q", bib["wbib1"])
	}
	if bib["wbib2"] != "Devlin J. BERT. 2019." {
		t.Errorf("bib[wbib2] = %q (citation-alternatives not unwrapped?)", bib["wbib2"])
	}
}

func TestWileyBibliographyTwoPass(t *testing.T) {
	// ref-list entries fill in keys the bib pass missed; existing keys are
	// not overwritten.
	xml := `<article>
<bib xml:id="b1"><citation>Native entry.</citation></bib>
<ref-list>
<ref id="b1"><citation>Shadowed entry.</citation></ref>
<ref id="b2"><citation>List entry.</citation></ref>
</ref-list>
</article>`
	x := ForSchema(types.SchemaWiley, docFromString(t, xml))
	bib := x.ParseBibliography()

	if bib["b1"] != "Native entry." {
		t.Errorf("bib[b1] = %q, want the native bib entry to win", bib["b1"])
	}
	if bib["b2"] != "List entry." {
		t.Errorf("bib[b2] = %q", bib["b2"])
	}
}

func TestWileyExtractCleanText(t *testing.T) {
	x := ForSchema(types.SchemaWiley, docFromString(t, wileyArticle))
	text := x.ExtractCleanText()

	if !strings.Contains(text, "As reported") {
		t.Errorf("clean text missing body content: %q", text)
	}
	if strings.Contains(text, "Brown T.") {
		t.Errorf("clean text contains bibliography content: %q", text)
	}
}

func TestWileyExtractPointers(t *testing.T) {
	x := ForSchema(types.SchemaWiley, docFromString(t, wileyArticle))
	ptrs := x.ExtractPointers()

	if len(ptrs) != 2 {
		t.Fatalf("got %d pointers, want 2: %+v", len(ptrs), ptrs)
	}
	// xref pass runs first, then link.
	if ptrs[0].TargetID != "wbib2" || ptrs[0].TagName != "xref" {
		t.Errorf("pointer[0] = %+v, want xref to wbib2", ptrs[0])
	}
	if ptrs[1].TargetID != "wbib1" || ptrs[1].TagName != "link" {
		t.Errorf("pointer[1] = %+v, want link to wbib1", ptrs[1])
	}
}

// --- BioC ---

const biocCollection = `<collection><document>
<passage>
<infon key="section_type">INTRO</infon>
<text>Data were deposited in GenBank under MN908947.</text>
<annotation id="a1"><infon key="type">citation</infon><infon key="referenced_bib_id">1</infon><text>[1]</text></annotation>
</passage>
<passage>
<infon key="section_type">REF</infon>
<text>References</text>
</passage>
<passage>
<infon key="section_type">REF</infon>
<infon key="authors">Wu F</infon>
<infon key="title">A new coronavirus</infon>
<infon key="source">Nature</infon>
<infon key="year">2020</infon>
<infon key="volume">579</infon>
<infon key="fpage">265</infon>
<infon key="lpage">269</infon>
</passage>
<passage>
<infon key="section_type">REF</infon>
<text>Zhou P. A pneumonia outbreak. Nature. 2020.</text>
</passage>
</document></collection>`

func TestBioCParseBibliography(t *testing.T) {
	x := ForSchema(types.SchemaBioC, docFromString(t, biocCollection))
	bib := x.ParseBibliography()

	if len(bib) != 2 {
		t.Fatalf("got %d entries %v, want 2", len(bib), bib)
	}
	want1 := "Wu F A new coronavirus Nature 2020 579 265-269"
	if bib["1"] != want1 {
		t.Errorf("bib[1] mismatch:\n%s", diff.LineDiff(want1, bib["1"]))
	}
	if bib["2"] != "Zhou P. A pneumonia outbreak. Nature. 2020." {
		t.Errorf("bib[2] = %q", bib["2"])
	}
}

func TestBioCSectionHeaderSkipped(t *testing.T) {
	x := ForSchema(types.SchemaBioC, docFromString(t, biocCollection))
	bib := x.ParseBibliography()
	for key, entry := range bib {
		if strings.EqualFold(entry, "References") {
			t.Errorf("bib[%q] is a bare section header", key)
		}
	}
}

func TestBioCExtractCleanText(t *testing.T) {
	x := ForSchema(types.SchemaBioC, docFromString(t, biocCollection))
	text := x.ExtractCleanText()

	if !strings.Contains(text, "GenBank") {
		t.Errorf("clean text missing passage content: %q", text)
	}
	if strings.Contains(text, "coronavirus") || strings.Contains(text, "pneumonia") {
		t.Errorf("clean text contains reference content: %q", text)
	}
}

func TestBioCExtractPointers(t *testing.T) {
	x := ForSchema(types.SchemaBioC, docFromString(t, biocCollection))
	ptrs := x.ExtractPointers()

	if len(ptrs) != 1 {
		t.Fatalf("got %d pointers, want 1: %+v", len(ptrs), ptrs)
	}
	if ptrs[0].TargetID != "1" || ptrs[0].CitationText != "[1]" {
		t.Errorf("pointer[0] = %+v", ptrs[0])
	}
	if !strings.Contains(ptrs[0].Context, "GenBank") {
		t.Errorf("pointer[0] context = %q, want containing passage", ptrs[0].Context)
	}
}

// --- Generic fallback ---

func TestGenericBibliographyByStrategy(t *testing.T) {
	tests := []struct {
		name     string
		xml      string
		wantTag  types.SchemaTag
		wantKeys []string
	}{
		{
			name: "jats rules match",
			xml: `<unknown-root><ref-list>
<ref id="b1"><mixed-citation>Entry one.</mixed-citation></ref>
</ref-list></unknown-root>`,
			wantTag:  types.SchemaJATS,
			wantKeys: []string{"b1"},
		},
		{
			name: "tei rules match",
			xml: `<unknown-root><listBibl>
<biblStruct xml:id="b0"><note type="raw_reference">Entry.</note></biblStruct>
</listBibl></unknown-root>`,
			wantTag:  types.SchemaTEI,
			wantKeys: []string{"b0"},
		},
		{
			name:     "nothing matches",
			xml:      `<unknown-root><p>No references here.</p></unknown-root>`,
			wantTag:  types.SchemaUnknown,
			wantKeys: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bib, tag := BibliographyByStrategy(docFromString(t, tt.xml))
			if tag != tt.wantTag {
				t.Errorf("strategy = %q, want %q", tag, tt.wantTag)
			}
			if len(bib) != len(tt.wantKeys) {
				t.Fatalf("got %d entries %v, want %d", len(bib), bib, len(tt.wantKeys))
			}
			for _, key := range tt.wantKeys {
				if bib[key] == "" {
					t.Errorf("missing key %q in %v", key, bib)
				}
			}
		})
	}
}

func TestGenericExtractCleanText(t *testing.T) {
	xml := `<unknown-root>
<p>Body text stays.</p>
<references><p>Reference text goes.</p></references>
<back><p>Back matter goes.</p></back>
</unknown-root>`
	x := ForSchema(types.SchemaUnknown, docFromString(t, xml))
	got := x.ExtractCleanText()
	want := "Body text stays."
	if got != want {
		t.Errorf("clean text mismatch:\n%s", diff.LineDiff(want, got))
	}
}

// --- shared helpers ---

func TestCleanTextDoesNotMutateTree(t *testing.T) {
	// Extraction strips sections from a copy; the cached tree must keep
	// them for later bibliography parsing.
	doc := docFromString(t, jatsArticle)
	x := ForSchema(types.SchemaJATS, doc)

	_ = x.ExtractCleanText()
	bib := x.ParseBibliography()
	if len(bib) == 0 {
		t.Fatal("bibliography empty after clean text extraction; tree was mutated")
	}
	if doc.FindElement("//ref-list") == nil {
		t.Fatal("ref-list removed from the shared tree")
	}
}

func TestContextDepthBound(t *testing.T) {
	// A marker nested deeper than the depth bound below any block tag
	// falls back to its immediate parent.
	xml := `<article><body><p>Far away context.
<a><b><c><d><e><f><xref ref-type="bibr" rid="b1">[1]</xref></f></e></d></c></b></a>
</p></body></article>`
	x := ForSchema(types.SchemaJATS, docFromString(t, xml))
	ptrs := x.ExtractPointers()
	if len(ptrs) != 1 {
		t.Fatalf("got %d pointers, want 1", len(ptrs))
	}
	if strings.Contains(ptrs[0].Context, "Far away") {
		t.Errorf("context %q reached past the depth bound", ptrs[0].Context)
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  a  b\n\tc  ", "a b c"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := normalizeSpace(tt.in); got != tt.want {
			t.Errorf("normalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
