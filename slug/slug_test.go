package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopweave/go-storefront-identity/slug"
)

func TestNormalizeAcceptsValidSlugs(t *testing.T) {
	tests := map[string]string{
		"demo-shop":     "demo-shop",
		"  demo-shop  ": "demo-shop",
		"Demo-Shop":     "demo-shop",
		"shop123":       "shop123",
		"123":           "123",
	}
	tests[strings.Repeat("a", 50)] = strings.Repeat("a", 50)
	for input, want := range tests {
		got, ok := slug.Normalize(input)
		require.True(t, ok, "input %q", input)
		require.Equal(t, want, got)
	}
}

func TestNormalizeRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"ab",
		strings.Repeat("a", 51),
		"shop_one",
		"shop one",
		"INVALID/slug",
		"shop!",
		"héllo",
	}
	for _, input := range inputs {
		got, ok := slug.Normalize(input)
		require.False(t, ok, "input %q", input)
		require.Empty(t, got)
	}
}

func TestNormalizeRejectsReservedWords(t *testing.T) {
	reserved := []string{"login", "signup", "forgot-password", "auth", "terms", "create-shop", "dashboard", "platform"}
	for _, word := range reserved {
		_, ok := slug.Normalize(word)
		require.False(t, ok, "reserved word %q", word)
		require.True(t, slug.IsReserved(word), "reserved word %q", word)
	}
}

func TestIsReservedIgnoresOrdinarySegments(t *testing.T) {
	require.False(t, slug.IsReserved("demo-shop"))
	require.False(t, slug.IsReserved(""))
}
