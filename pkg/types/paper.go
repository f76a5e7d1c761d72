// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Field names written by the fetch stage.
const (
	FieldPDF         = "pdf"
	FieldTitle       = "title"
	FieldArxivID     = "arxiv_id"
	FieldAuthors     = "authors"
	FieldDOI         = "doi"
	FieldDescription = "description"
)

// Paper holds the normalized metadata and file location of a fetched paper.
type Paper struct {
	// PDF is the downloaded document.
	PDF FileReference `json:"pdf" yaml:"pdf"`

	// Title is the paper title as returned by the catalog.
	Title string `json:"title" yaml:"title"`

	// ArxivID is the catalog's canonical entry id
	// (e.g. "http://arxiv.org/abs/2106.12345v1").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Authors lists author display names in catalog order.
	Authors []string `json:"authors" yaml:"authors"`

	// DOI is empty when the catalog has none.
	DOI string `json:"doi" yaml:"doi"`

	// Description is the abstract with newlines collapsed to spaces.
	Description string `json:"description" yaml:"description"`
}

// Fields returns the paper as the six Record fields the fetch stage
// produces, in a fixed order.
func (p Paper) Fields() []Field {
	return []Field{
		{Name: FieldPDF, Value: FileValue(p.PDF)},
		{Name: FieldTitle, Value: StringValue(p.Title)},
		{Name: FieldArxivID, Value: StringValue(p.ArxivID)},
		{Name: FieldAuthors, Value: StringListValue(p.Authors)},
		{Name: FieldDOI, Value: StringValue(p.DOI)},
		{Name: FieldDescription, Value: StringValue(p.Description)},
	}
}
