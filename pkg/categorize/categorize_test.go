package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvfrancisco/extrato/pkg/models"
)

func TestCategorizeMatchesKeywords(t *testing.T) {
	engine := New()

	tests := []struct {
		description string
		kind        models.Kind
		wantKey     string
		wantRule    string
	}{
		{"IFOOD *Restaurante Bom", models.KindExpense, "alimentacao", "food.delivery"},
		{"Uber *Trip", models.KindExpense, "transporte", "transport.ride"},
		{"NETFLIX.COM", models.KindExpense, "assinaturas", "subscriptions.digital"},
		{"Pix Recebido - Fulano", models.KindIncome, "receitas", "income.received"},
		{"Pix Enviado - Beltrano", models.KindExpense, "transferencias", "transfer.out"},
	}

	for _, tt := range tests {
		got := engine.Categorize(tt.description, "", -100, tt.kind)
		assert.Equal(t, tt.wantKey, got.CategoryKey, tt.description)
		assert.Equal(t, tt.wantRule, got.MatchedRule, tt.description)
		assert.Greater(t, got.Confidence, 0.0, tt.description)
	}
}

func TestCategorizeKindRestriction(t *testing.T) {
	engine := New()

	// "pix recebido" only matches the income rule; as an expense it falls
	// through every rule.
	got := engine.Categorize("Pix Recebido", "", 100, models.KindExpense)
	assert.Empty(t, got.CategoryKey)
	assert.Zero(t, got.Confidence)
}

func TestCategorizeUsesExtraDescription(t *testing.T) {
	engine := New()

	got := engine.Categorize("PAG*Jose", "Pix Enviado", -100, models.KindExpense)
	assert.Equal(t, "transferencias", got.CategoryKey)
}

func TestCategorizeNoMatch(t *testing.T) {
	engine := New()

	assert.Equal(t, Result{}, engine.Categorize("", "", 0, models.KindExpense))
	assert.Equal(t, Result{}, engine.Categorize("algo totalmente desconhecido", "", -100, models.KindExpense))
}

func TestCategorizeOrderBeatsBroadRules(t *testing.T) {
	engine := New()

	// "supermercado extra" also contains the "extra" keyword of the same
	// rule; the first matching rule decides.
	got := engine.Categorize("Supermercado Extra", "", -100, models.KindExpense)
	assert.Equal(t, "mercado", got.CategoryKey)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	content := `
- id: pets.care
  category: pets
  keywords: [petshop, veterinario]
  kind: expense
  confidence: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	engine, err := FromFile(path)
	require.NoError(t, err)
	require.Len(t, engine.Rules(), 1)

	got := engine.Categorize("PetShop Amigo Fiel", "", -100, models.KindExpense)
	assert.Equal(t, "pets", got.CategoryKey)
	assert.Equal(t, "pets.care", got.MatchedRule)
}

func TestFromFileErrors(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	_, err = FromFile(empty)
	assert.Error(t, err)
}
