package imagecache

import "strings"

// FallbackPair maps a lower-cased keyword to a stock image reference.
type FallbackPair struct {
	Keyword string
	URL     string
}

// FallbackTable resolves an item name to a stock image by substring match
// against the lower-cased name. When several keywords match, the longest
// one wins, so specific dishes ("chicken tikka") beat generic ones
// ("chicken"). Fallback references carry no TTL and skip liveness checks.
type FallbackTable struct {
	pairs []FallbackPair
}

// NewFallbackTable builds a table from the given pairs. Keywords are
// lower-cased; empty keywords are dropped.
func NewFallbackTable(pairs []FallbackPair) *FallbackTable {
	t := &FallbackTable{pairs: make([]FallbackPair, 0, len(pairs))}
	for _, p := range pairs {
		kw := strings.ToLower(strings.TrimSpace(p.Keyword))
		if kw == "" {
			continue
		}
		t.pairs = append(t.pairs, FallbackPair{Keyword: kw, URL: p.URL})
	}
	return t
}

// Resolve returns the stock reference for the longest keyword contained in
// the item name, reporting whether any keyword matched.
func (t *FallbackTable) Resolve(itemName string) (string, bool) {
	name := strings.ToLower(itemName)
	best := -1
	var bestURL string
	for _, p := range t.pairs {
		if strings.Contains(name, p.Keyword) && len(p.Keyword) > best {
			best = len(p.Keyword)
			bestURL = p.URL
		}
	}
	return bestURL, best >= 0
}

// DefaultFallbacks is the stock-image table loaded at startup.
func DefaultFallbacks() *FallbackTable {
	return NewFallbackTable([]FallbackPair{
		{Keyword: "chicken tikka", URL: "https://images.unsplash.com/photo-1565557623262-b51c2513a641?w=400"},
		{Keyword: "butter chicken", URL: "https://images.unsplash.com/photo-1603894584373-5ac82b2ae398?w=400"},
		{Keyword: "fried chicken", URL: "https://images.unsplash.com/photo-1562967914-608f82629710?w=400"},
		{Keyword: "chicken", URL: "https://images.unsplash.com/photo-1598103442097-8b74394b95c6?w=400"},
		{Keyword: "pad thai", URL: "https://images.unsplash.com/photo-1559314809-0d155014e29e?w=400"},
		{Keyword: "fried rice", URL: "https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=400"},
		{Keyword: "ramen", URL: "https://images.unsplash.com/photo-1569718212165-3a8278d5f624?w=400"},
		{Keyword: "sushi", URL: "https://images.unsplash.com/photo-1579871494447-9811cf80d66c?w=400"},
		{Keyword: "pizza", URL: "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=400"},
		{Keyword: "burger", URL: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400"},
		{Keyword: "pasta", URL: "https://images.unsplash.com/photo-1551183053-bf91a1d81141?w=400"},
		{Keyword: "spaghetti", URL: "https://images.unsplash.com/photo-1622973536968-3ead9e780960?w=400"},
		{Keyword: "steak", URL: "https://images.unsplash.com/photo-1600891964092-4316c288032e?w=400"},
		{Keyword: "salmon", URL: "https://images.unsplash.com/photo-1467003909585-2f8a72700288?w=400"},
		{Keyword: "taco", URL: "https://images.unsplash.com/photo-1551504734-5ee1c4a1479b?w=400"},
		{Keyword: "burrito", URL: "https://images.unsplash.com/photo-1626700051175-6818013e1d4f?w=400"},
		{Keyword: "curry", URL: "https://images.unsplash.com/photo-1585937421612-70a008356fbe?w=400"},
		{Keyword: "salad", URL: "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=400"},
		{Keyword: "soup", URL: "https://images.unsplash.com/photo-1547592166-23ac45744acd?w=400"},
		{Keyword: "dumpling", URL: "https://images.unsplash.com/photo-1563245372-f21724e3856d?w=400"},
		{Keyword: "pho", URL: "https://images.unsplash.com/photo-1582878826629-29b7ad1cdc43?w=400"},
		{Keyword: "ice cream", URL: "https://images.unsplash.com/photo-1563805042-7684c019e1cb?w=400"},
		{Keyword: "cheesecake", URL: "https://images.unsplash.com/photo-1533134242443-d4fd215305ad?w=400"},
		{Keyword: "cake", URL: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400"},
		{Keyword: "coffee", URL: "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=400"},
		{Keyword: "tea", URL: "https://images.unsplash.com/photo-1544787219-7f47ccb76574?w=400"},
		{Keyword: "beer", URL: "https://images.unsplash.com/photo-1608270586620-248524c67de9?w=400"},
		{Keyword: "wine", URL: "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3?w=400"},
	})
}
