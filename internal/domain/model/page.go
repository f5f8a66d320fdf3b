package model

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page selects a window of a listing. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps page values into supported bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.Size
}

// TotalPages computes how many pages hold total rows.
func (p Page) TotalPages(total int) int {
	n := p.Normalize()
	if total <= 0 {
		return 0
	}
	return (total + n.Size - 1) / n.Size
}
