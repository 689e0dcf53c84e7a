package ai

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"bcplughub/utils"

	"go.uber.org/zap"
)

var aliasAdjectives = []string{
	"Velvet", "Neon", "Cosmic", "Shadow", "Electric",
	"Mystic", "Digital", "Urban", "Midnight", "Golden",
}

var aliasNouns = []string{
	"Thunder", "Phantom", "Wolf", "Phoenix", "Viper",
	"Cipher", "Falcon", "Raven", "Tiger", "Dragon",
}

// AliasGenerator turns a self-description into a two-word alias.
type AliasGenerator struct {
	LLM TextGenerator
	// Intn picks fallback words; defaults to math/rand.
	Intn func(n int) int
}

func (g *AliasGenerator) intn(n int) int {
	if g.Intn != nil {
		return g.Intn(n)
	}
	return rand.Intn(n)
}

// RandomAlias returns a fallback Adjective+Noun alias.
func (g *AliasGenerator) RandomAlias() string {
	return aliasAdjectives[g.intn(len(aliasAdjectives))] + " " + aliasNouns[g.intn(len(aliasNouns))]
}

func aliasPrompt(name, description string) string {
	return fmt.Sprintf(`You create fun, mysterious two-word nicknames for college students on a party app.
Student name: %s
Self description: %s

Reply with exactly two words in the form "Adjective Noun", each capitalized. No punctuation, no quotes, no explanation.
Do not include the student's real name.`, name, description)
}

// GenerateAlias asks the model for an alias and falls back to a random one.
func (g *AliasGenerator) GenerateAlias(ctx context.Context, name, description string) string {
	if g.LLM == nil {
		return g.RandomAlias()
	}
	out, err := g.LLM.GenerateContent(ctx, aliasPrompt(name, description))
	if err != nil {
		utils.GetLogger().Warn("alias generation failed, using fallback", zap.Error(err))
		return g.RandomAlias()
	}
	alias, ok := SanitizeAlias(out)
	if !ok {
		utils.GetLogger().Warn("alias output rejected, using fallback", zap.String("output", out))
		return g.RandomAlias()
	}
	return alias
}

// SanitizeAlias keeps the first two words of the first line, letters and digits only.
func SanitizeAlias(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, line)

	words := strings.Fields(clean)
	if len(words) < 2 {
		return "", false
	}
	words = words[:2]
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	alias := strings.Join(words, " ")
	if len(alias) > 40 {
		return "", false
	}
	return alias, true
}
