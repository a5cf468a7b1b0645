package categorize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// Built-in rules, evaluated top to bottom. Keywords are already in
// normalized form (lowercase ASCII, single spaces).
var defaultRules = []Rule{
	{
		ID:          "food.delivery",
		CategoryKey: "alimentacao",
		Keywords:    []string{"ifood", "delivery", "restaurante", "lanchonete", "burger", "chefs"},
		Kind:        models.KindExpense,
		Confidence:  0.85,
	},
	{
		ID:          "market.grocery",
		CategoryKey: "mercado",
		Keywords:    []string{"supermercado", "mercado", "atacadao", "carrefour", "extra"},
		Kind:        models.KindExpense,
		Confidence:  0.85,
	},
	{
		ID:          "transport.ride",
		CategoryKey: "transporte",
		Keywords:    []string{"uber", "99", "posto", "gasolina", "estacionamento"},
		Kind:        models.KindExpense,
		Confidence:  0.85,
	},
	{
		ID:          "health.care",
		CategoryKey: "saude",
		Keywords:    []string{"drogaria", "farmacia", "hospital", "clinica", "laboratorio"},
		Kind:        models.KindExpense,
		Confidence:  0.8,
	},
	{
		ID:          "subscriptions.digital",
		CategoryKey: "assinaturas",
		Keywords:    []string{"netflix", "spotify", "adobe", "google", "microsoft", "prime"},
		Kind:        models.KindExpense,
		Confidence:  0.8,
	},
	{
		ID:          "home.utilities",
		CategoryKey: "moradia-contas",
		Keywords:    []string{"aluguel", "condominio", "energia", "agua", "luz", "telefone", "internet"},
		Kind:        models.KindExpense,
		Confidence:  0.75,
	},
	{
		ID:          "leisure.fun",
		CategoryKey: "lazer",
		Keywords:    []string{"cinema", "show", "ingresso", "parque", "viagem", "hotel"},
		Kind:        models.KindExpense,
		Confidence:  0.7,
	},
	{
		ID:          "education.learning",
		CategoryKey: "educacao",
		Keywords:    []string{"escola", "faculdade", "curso", "educacao", "udemy", "alura"},
		Kind:        models.KindExpense,
		Confidence:  0.7,
	},
	{
		ID:          "transfer.out",
		CategoryKey: "transferencias",
		Keywords:    []string{"pix enviado", "transferencia enviada", "ted enviado", "doc enviado"},
		Kind:        models.KindExpense,
		Confidence:  0.9,
	},
	{
		ID:          "income.received",
		CategoryKey: "receitas",
		Keywords:    []string{"pix recebido", "salario", "proventos", "ted recebido", "doc recebido"},
		Kind:        models.KindIncome,
		Confidence:  0.95,
	},
	{
		ID:          "balance.adjustment",
		CategoryKey: "ajustes-saldo",
		Keywords:    []string{"saldo anterior", "saldo"},
		Kind:        models.KindExpense,
		Confidence:  0.4,
	},
}

// FromFile loads a rule table from a YAML file, replacing the built-ins.
func FromFile(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}

	return NewWithRules(rules), nil
}
