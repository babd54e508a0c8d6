package app

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"nightspot/internal/domain"
	"nightspot/internal/geo"
)

// PageSize is fixed by the product: nine venue cards per page.
const PageSize = 9

type Filters struct {
	Category   *int
	SearchText string
	Genres     []string
}

type SortOrder string

const (
	SortName     SortOrder = "name" // default
	SortRating   SortOrder = "rating"
	SortDistance SortOrder = "distance"
)

// PageMark is one slot in the rendered page-number strip. Either a page
// number or an ellipsis gap.
type PageMark struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type Page struct {
	Items      []domain.Place `json:"items"`
	Number     int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalItems int            `json:"total_items"`
	Window     []PageMark     `json:"window"`
}

// Browse filters, sorts, and slices one page out of a Place list. origin may
// be nil; distance sort then degrades to name order. The requested page is
// clamped into [1, totalPages].
func Browse(places []domain.Place, f Filters, order SortOrder, origin *domain.Coordinate, page int) Page {
	kept := filterPlaces(places, f)
	sortPlaces(kept, order, origin)

	total := (len(kept) + PageSize - 1) / PageSize
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	lo := (page - 1) * PageSize
	hi := lo + PageSize
	if lo > len(kept) {
		lo = len(kept)
	}
	if hi > len(kept) {
		hi = len(kept)
	}

	return Page{
		Items:      kept[lo:hi],
		Number:     page,
		TotalPages: total,
		TotalItems: len(kept),
		Window:     PageWindow(total, page),
	}
}

func filterPlaces(places []domain.Place, f Filters) []domain.Place {
	needle := strings.ToLower(strings.TrimSpace(f.SearchText))
	genres := make([]string, 0, len(f.Genres))
	for _, g := range f.Genres {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			genres = append(genres, g)
		}
	}

	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		if len(genres) > 0 && !matchesGenres(p, genres) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesText(p domain.Place, needle string) bool {
	for _, field := range []string{p.Name, p.Address, p.Description} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Genre filtering only constrains registry venues; provider hits carry no
// genre data and always pass.
func matchesGenres(p domain.Place, genres []string) bool {
	if p.Source == domain.SourceExternal {
		return true
	}
	tags := strings.ToLower(strings.Join(p.GenreTags, ","))
	for _, g := range genres {
		if strings.Contains(tags, g) {
			return true
		}
	}
	return false
}

func sortPlaces(places []domain.Place, order SortOrder, origin *domain.Coordinate) {
	if order == SortDistance && origin == nil {
		order = SortName
	}
	switch order {
	case SortRating:
		sort.SliceStable(places, func(i, j int) bool {
			return ratingOf(places[i]) > ratingOf(places[j])
		})
	case SortDistance:
		sort.SliceStable(places, func(i, j int) bool {
			return geo.Distance(*origin, places[i].Coord) < geo.Distance(*origin, places[j].Coord)
		})
	default:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(places, func(i, j int) bool {
			return c.CompareString(places[i].Name, places[j].Name) < 0
		})
	}
}

func ratingOf(p domain.Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// PageWindow computes the compact page-number strip: all pages when five or
// fewer; otherwise the first page, the last page, and a short run around the
// current page, with ellipsis marks over any gap.
func PageWindow(total, current int) []PageMark {
	if total <= 5 {
		marks := make([]PageMark, 0, total)
		for p := 1; p <= total; p++ {
			marks = append(marks, PageMark{Page: p})
		}
		return marks
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	show := map[int]bool{1: true, total: true}
	switch {
	case current <= 3:
		// near the start the run widens so the strip never shrinks below
		// four leading numbers
		for p := 2; p <= 4; p++ {
			show[p] = true
		}
	case current >= total-2:
		for p := total - 3; p <= total-1; p++ {
			show[p] = true
		}
	default:
		for p := current - 1; p <= current+1; p++ {
			show[p] = true
		}
	}

	var marks []PageMark
	prev := 0
	for p := 1; p <= total; p++ {
		if !show[p] {
			continue
		}
		if prev != 0 && p-prev > 1 {
			marks = append(marks, PageMark{Ellipsis: true})
		}
		marks = append(marks, PageMark{Page: p})
		prev = p
	}
	return marks
}
