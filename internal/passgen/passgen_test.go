package passgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ExactLength(t *testing.T) {
	rules := Safe()
	pw, err := Generate(rules)
	require.NoError(t, err)
	assert.Len(t, []rune(pw), rules.Length)
}

func TestGenerate_RequireEachTypeContributesEveryPool(t *testing.T) {
	rules := Safe()
	for i := 0; i < 50; i++ {
		pw, err := Generate(rules)
		require.NoError(t, err)
		assert.Regexp(t, `[A-Z]`, pw)
		assert.Regexp(t, `[a-z]`, pw)
		assert.Regexp(t, `[0-9]`, pw)
		assert.Regexp(t, `[!@#\$%\^&\*\(\)_\+\-=\[\]\{\}\|;:,\.<>\?]`, pw)
	}
}

func TestGenerate_ExcludeAmbiguous(t *testing.T) {
	rules := Safe()
	for i := 0; i < 50; i++ {
		pw, err := Generate(rules)
		require.NoError(t, err)
		for _, c := range []string{"I", "O", "i", "l", "o", "0", "1"} {
			assert.False(t, strings.Contains(pw, c), "password %q contains ambiguous char %q", pw, c)
		}
	}
}

func TestGenerate_EmptyPoolFallsBackToLiteral(t *testing.T) {
	rules := Rules{Length: 10}
	pw, err := Generate(rules)
	require.NoError(t, err)
	assert.Equal(t, "password", pw)
}

func TestGenerate_OverSeedingTruncatesToLength(t *testing.T) {
	rules := Rules{
		Length:           2,
		UseUppercase:     true,
		UseLowercase:     true,
		UseDigits:        true,
		UseSymbols:       true,
		RequireEachType:  true,
	}
	pw, err := Generate(rules)
	require.NoError(t, err)
	assert.Len(t, []rune(pw), 2)
}

func TestGenerate_BalancedAndFastPresets(t *testing.T) {
	for _, rules := range []Rules{Balanced(), Fast(), Default()} {
		pw, err := Generate(rules)
		require.NoError(t, err)
		assert.Len(t, []rune(pw), rules.Length)
	}
}

func TestPreset_UnknownNameNotOK(t *testing.T) {
	_, ok := Preset("nonsense")
	assert.False(t, ok)
}

func TestPreset_KnownNames(t *testing.T) {
	for _, name := range []string{"safe", "balanced", "fast", "default", ""} {
		_, ok := Preset(name)
		assert.True(t, ok, "preset %q should resolve", name)
	}
}

func TestPronounceable_AlternatesConsonantVowel(t *testing.T) {
	pw, err := Pronounceable(8)
	require.NoError(t, err)
	runes := []rune(pw)
	require.Len(t, runes, 8)

	for i, r := range runes {
		if i%2 == 0 {
			assert.Contains(t, consonantPool, string(r))
		} else {
			assert.Contains(t, vowelPool, string(r))
		}
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Weak, Classify("abc"))
	assert.Equal(t, Medium, Classify("abcdefgh12"))
	assert.Equal(t, Strong, Classify("Abcdefghijklmno1!"))
}
