// Package passgen implements the rule-driven random password generator and
// its pronounceable-syllable variant. Randomness is always drawn from
// crypto/rand, never math/rand, including the Fisher-Yates shuffle.
package passgen

import (
	"crypto/rand"
	"math/big"
)

const (
	uppercasePool = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercasePool = "abcdefghijklmnopqrstuvwxyz"
	digitPool     = "0123456789"
	symbolPool    = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	uppercasePoolNoAmbiguous = "ABCDEFGHJKLMNPQRSTUVWXYZ" // drops I, O
	lowercasePoolNoAmbiguous = "abcdefghjkmnpqrstuvwxyz"  // drops i, l, o
	digitPoolNoAmbiguous     = "23456789"                 // drops 0, 1

	consonantPool = "bcdfghjklmnpqrstvwxyz"
	vowelPool     = "aeiou"

	fallbackPassword = "password"
)

// Rules configures a single generate_password call.
type Rules struct {
	Length          int
	UseUppercase    bool
	UseLowercase    bool
	UseDigits       bool
	UseSymbols      bool
	ExcludeAmbiguous bool
	RequireEachType bool
}

// Default mirrors the source's Default: all pools on, ambiguity excluded,
// each type required, length 16.
func Default() Rules {
	return Rules{
		Length:           16,
		UseUppercase:     true,
		UseLowercase:     true,
		UseDigits:        true,
		UseSymbols:       true,
		ExcludeAmbiguous: true,
		RequireEachType:  true,
	}
}

// Safe is the strongest preset: length 20, all pools on, ambiguity
// excluded, each type required.
func Safe() Rules {
	r := Default()
	r.Length = 20
	return r
}

// Balanced favors readability: length 16, all pools on, no ambiguity
// filter, no required-type seeding.
func Balanced() Rules {
	return Rules{
		Length:       16,
		UseUppercase: true,
		UseLowercase: true,
		UseDigits:    true,
		UseSymbols:   true,
	}
}

// Fast is alphanumeric only, length 12, no ambiguity filter, no
// required-type seeding.
func Fast() Rules {
	return Rules{
		Length:       12,
		UseUppercase: true,
		UseLowercase: true,
		UseDigits:    true,
	}
}

// Preset resolves a preset name to its Rules. ok is false for an unknown
// name.
func Preset(name string) (Rules, bool) {
	switch name {
	case "safe":
		return Safe(), true
	case "balanced":
		return Balanced(), true
	case "fast":
		return Fast(), true
	case "default", "":
		return Default(), true
	default:
		return Rules{}, false
	}
}

// Generate builds a password from rules: seed required types (if any), fill
// to length from the combined pool, Fisher-Yates shuffle, then truncate to
// exactly rules.Length. Truncation only has an effect when RequireEachType
// seeds more characters than Length allows; this is the resolved policy for
// the over-seeding case left open by the rules' design.
func Generate(rules Rules) (string, error) {
	upper, lower, digits := uppercasePool, lowercasePool, digitPool
	if rules.ExcludeAmbiguous {
		upper, lower, digits = uppercasePoolNoAmbiguous, lowercasePoolNoAmbiguous, digitPoolNoAmbiguous
	}
	symbols := symbolPool

	var charset []rune
	if rules.UseUppercase {
		charset = append(charset, []rune(upper)...)
	}
	if rules.UseLowercase {
		charset = append(charset, []rune(lower)...)
	}
	if rules.UseDigits {
		charset = append(charset, []rune(digits)...)
	}
	if rules.UseSymbols {
		charset = append(charset, []rune(symbols)...)
	}

	if len(charset) == 0 {
		return fallbackPassword, nil
	}

	var out []rune

	if rules.RequireEachType {
		type seed struct {
			enabled bool
			pool    string
		}
		// Fixed order: upper, lower, digit, symbol.
		for _, s := range []seed{
			{rules.UseUppercase, upper},
			{rules.UseLowercase, lower},
			{rules.UseDigits, digits},
			{rules.UseSymbols, symbols},
		} {
			if !s.enabled || s.pool == "" {
				continue
			}
			r, err := randomRune([]rune(s.pool))
			if err != nil {
				return "", err
			}
			out = append(out, r)
		}
	}

	for len(out) < rules.Length {
		r, err := randomRune(charset)
		if err != nil {
			return "", err
		}
		out = append(out, r)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}

	if len(out) > rules.Length {
		out = out[:rules.Length]
	}

	return string(out), nil
}

// Pronounceable alternates a consonant at even indices with a vowel at odd
// indices, for length runes total.
func Pronounceable(length int) (string, error) {
	consonants := []rune(consonantPool)
	vowels := []rune(vowelPool)

	out := make([]rune, length)
	for i := 0; i < length; i++ {
		var pool []rune
		if i%2 == 0 {
			pool = consonants
		} else {
			pool = vowels
		}
		r, err := randomRune(pool)
		if err != nil {
			return "", err
		}
		out[i] = r
	}
	return string(out), nil
}

func randomRune(pool []rune) (rune, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, err
	}
	return pool[n.Int64()], nil
}

// shuffle performs an in-place Fisher-Yates shuffle using crypto/rand.
func shuffle(buf []rune) error {
	for i := len(buf) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		jIdx := j.Int64()
		buf[i], buf[jIdx] = buf[jIdx], buf[i]
	}
	return nil
}
