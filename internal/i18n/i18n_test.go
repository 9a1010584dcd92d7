package i18n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	t.Parallel()

	b, err := LoadEmbedded()
	require.NoError(t, err)

	tr := b.Translator("en")
	require.Equal(t, "en", tr.Locale())
	require.NotEqual(t, "map.locationPermission", tr.Lookup("map.locationPermission"))
	require.NotEqual(t, "settings.useCurrentLocation", tr.Lookup("settings.useCurrentLocation"))
}

func TestTranslatorNegotiation(t *testing.T) {
	t.Parallel()

	b, err := LoadEmbedded()
	require.NoError(t, err)

	// regional variant falls back to the hi catalog
	tr := b.Translator("hi-IN")
	require.Equal(t, "hi", tr.Locale())

	// unknown locale falls back to base
	tr = b.Translator("zz")
	require.Equal(t, "en", tr.Locale())
}

func TestLookupMissingKeyReturnsKey(t *testing.T) {
	t.Parallel()

	b, err := LoadEmbedded()
	require.NoError(t, err)

	tr := b.Translator("en")
	require.Equal(t, "no.such.key", tr.Lookup("no.such.key"))
}

func TestHindiCatalogCoversBaseKeys(t *testing.T) {
	t.Parallel()

	b, err := LoadEmbedded()
	require.NoError(t, err)

	base := b.locales[BaseLocale]
	hi := b.locales["hi"]
	for key := range base {
		require.Contains(t, hi, key, "hi catalog missing %s", key)
	}
}
