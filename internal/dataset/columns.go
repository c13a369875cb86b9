package dataset

import (
	"strings"

	"rn518panel/internal/indicators"
)

// Identity columns
const (
	colEntityID      = "entity_id"
	colYear          = "year"
	colQuarter       = "quarter"
	colOperatorName  = "operator_name"
	colDisplayName   = "display_name"
	colLegalName     = "legal_name"
	colModality      = "modality"
	colSizeClass     = "size_class"
	colBeneficiaries = "beneficiaries"
	colFlagged       = "flagged"
)

var requiredColumns = []string{colEntityID, colYear, colQuarter}

// aliases maps accepted header names to canonical column keys
var aliases = map[string]string{
	"reg_ans":                  colEntityID,
	"registro_ans":             colEntityID,
	"ano":                      colYear,
	"trimestre":                colQuarter,
	"nome_operadora":           colOperatorName,
	"nome_fantasia":            colDisplayName,
	"razao_social":             colLegalName,
	"modalidade":               colModality,
	"porte":                    colSizeClass,
	"qt_beneficiarios_periodo": colBeneficiaries,
	"total_beneficiarios":      colBeneficiaries,
	"uniodonto":                colFlagged,

	"sinistralidade":                "loss_ratio",
	"pct_despesas_administrativas":  "admin_expense_ratio",
	"pct_despesas_comerciais":       "commercial_expense_ratio",
	"pct_despesas_tributarias":      "tax_expense_ratio",
	"pct_despesas_operacionais":     "operating_expense_ratio",
	"indice_resultado_financeiro":   "financial_result_index",
	"margem_financeira_liquida":     "net_financial_margin",
	"margem_operacional":            "operating_margin",
	"margem_liquida":                "net_profit_margin",
	"liquidez_corrente":             "current_liquidity",
	"liquidez_seca":                 "quick_liquidity",
	"endividamento":                 "leverage_ratio",
	"imobilizacao_pl":               "equity_immobilization",
	"retorno_patrimonio_liquido":    "return_on_equity",
	"cobertura_provisoes":           "technical_reserve_coverage",
	"margem_solvencia":              "solvency_margin",
	"prazo_medio_recebimento":       "average_collection_days",
	"prazo_medio_pagamento_eventos": "average_claim_days",

	"receita_contraprestacoes": "consideration_revenue",
	"despesas_eventos":         "claim_expenses",
	"despesas_administrativas": "administrative_expenses",
	"resultado_liquido":        "net_result",
}

type columnKind int

const (
	kindIgnored columnKind = iota
	kindIdentity
	kindIndicator
	kindComponent
)

var (
	identityColumns  = map[string]bool{}
	indicatorColumns = map[string]bool{}
	componentColumns = map[string]bool{}
)

func init() {
	for _, c := range []string{colEntityID, colYear, colQuarter, colOperatorName, colDisplayName,
		colLegalName, colModality, colSizeClass, colBeneficiaries, colFlagged} {
		identityColumns[c] = true
	}
	for _, ind := range indicators.Catalog() {
		indicatorColumns[ind.Field] = true
	}
	for _, c := range indicators.Components() {
		componentColumns[c.Field] = true
	}
}

// canonical resolves a raw header to its column key and kind
func canonical(header string) (string, columnKind) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	switch {
	case identityColumns[key]:
		return key, kindIdentity
	case indicatorColumns[key]:
		return key, kindIndicator
	case componentColumns[key]:
		return key, kindComponent
	default:
		return key, kindIgnored
	}
}
