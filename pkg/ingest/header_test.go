package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	in := []string{"\uFEFFData", " Lançamento ", "Histórico", "Nº Documento", "Tipo Lançamento", "Valor (R$)"}
	want := []string{"data", "lancamento", "historico", "ndocumento", "tipolancamento", "valorr"}
	assert.Equal(t, want, NormalizeHeader(in))
}

func TestNormalizeHeaderFieldKeepsDigits(t *testing.T) {
	assert.Equal(t, "conta99", NormalizeHeaderField(" Conta-99 "))
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Saldo   Anterior  ", "saldo anterior"},
		{"PAGAMENTO RECEBIDO", "pagamento recebido"},
		{"Transferência PIX", "transferencia pix"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in))
	}
}
