package domain

// RecentlyViewedLimit caps the recently-viewed list.
const RecentlyViewedLimit = 5

// Product is the snapshot kept for a viewed product.
type Product struct {
	ID          Identifier `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Images      []string   `json:"images,omitempty"`
}

// PushRecentlyViewed returns a new list with p at the front, any previous
// entry with the same ID removed, truncated to RecentlyViewedLimit.
// The input slice is not modified.
func PushRecentlyViewed(list []Product, p Product) []Product {
	return NormalizeRecentlyViewed(append([]Product{p}, list...))
}

// NormalizeRecentlyViewed keeps the first entry per ID, drops entries without
// one and truncates to RecentlyViewedLimit. Stored lists written elsewhere go
// through it before use.
func NormalizeRecentlyViewed(list []Product) []Product {
	out := make([]Product, 0, RecentlyViewedLimit)
	seen := make(map[Identifier]struct{}, RecentlyViewedLimit)
	for _, p := range list {
		if len(out) == RecentlyViewedLimit {
			break
		}
		if _, dup := seen[p.ID]; dup || p.ID.IsZero() {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// WishlistResponse is the body of GET /wishlist.
type WishlistResponse struct {
	Wishlist []Identifier `json:"wishlist"`
}

// Contains reports whether id is a member of the wishlist.
func (w WishlistResponse) Contains(id Identifier) bool {
	for _, member := range w.Wishlist {
		if member == id {
			return true
		}
	}
	return false
}
