// Package ai turns free-text sale descriptions into structured sale proposals.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/shopspring/decimal"

	"resale-ledger/internal/core"
)

// SaleProposal is the model's reading of a sale description. Amounts are decimal
// strings. Clarification is set instead of the sale fields when the text is ambiguous.
type SaleProposal struct {
	ItemID        int64   `json:"item_id" jsonschema:"description=id of the matching stock item or 0 when unsure"`
	Platform      string  `json:"platform" jsonschema:"enum=ebay,enum=mercari,enum=poshmark,enum=depop,enum=etsy,enum=amazon,enum=facebook,enum=storefront,enum=other"`
	SalePrice     string  `json:"sale_price" jsonschema:"description=price per unit"`
	QuantitySold  int     `json:"quantity_sold"`
	SaleDate      string  `json:"sale_date" jsonschema:"description=YYYY-MM-DD"`
	PlatformFees  string  `json:"platform_fees"`
	ShippingCost  string  `json:"shipping_cost"`
	OtherFees     string  `json:"other_fees"`
	Notes         string  `json:"notes"`
	Confidence    float64 `json:"confidence"`
	Reasoning     string  `json:"reasoning"`
	Clarification string  `json:"clarification" jsonschema:"description=question for the seller or empty"`
}

// NeedsClarification reports whether the model asked a question instead of proposing.
func (p *SaleProposal) NeedsClarification() bool {
	return strings.TrimSpace(p.Clarification) != ""
}

// Input converts the proposal to a validated sale input.
func (p *SaleProposal) Input() (core.SaleInput, error) {
	in := core.SaleInput{
		ItemID:       p.ItemID,
		Platform:     core.Platform(strings.ToLower(strings.TrimSpace(p.Platform))),
		QuantitySold: p.QuantitySold,
		SaleDate:     strings.TrimSpace(p.SaleDate),
		Notes:        strings.TrimSpace(p.Notes),
	}
	amounts := []struct {
		field string
		raw   string
		dst   *decimal.Decimal
	}{
		{"sale_price", p.SalePrice, &in.SalePrice},
		{"platform_fees", p.PlatformFees, &in.Fees.PlatformFees},
		{"shipping_cost", p.ShippingCost, &in.Fees.ShippingCost},
		{"other_fees", p.OtherFees, &in.Fees.OtherFees},
	}
	for _, a := range amounts {
		raw := strings.TrimPrefix(strings.TrimSpace(a.raw), "$")
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return core.SaleInput{}, &core.ValidationError{Field: a.field, Message: fmt.Sprintf("not a decimal amount: %q", a.raw)}
		}
		*a.dst = v
	}
	if err := in.Validate(); err != nil {
		return core.SaleInput{}, err
	}
	return in, nil
}

// IntakeService proposes sales from natural language.
type IntakeService interface {
	// ProposeSale reads text against the seller's catalogue, one item per line, and
	// returns a proposal. Nothing is recorded.
	ProposeSale(ctx context.Context, text, catalogue, today string) (*SaleProposal, error)
}

// Agent is the OpenAI-backed IntakeService.
type Agent struct {
	client *openai.Client
	model  string
}

// NewAgent builds an Agent. Extra options are passed to the OpenAI client.
func NewAgent(apiKey, model string, opts ...option.RequestOption) *Agent {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	if model == "" {
		model = shared.ChatModelGPT4oMini
	}
	return &Agent{client: &client, model: model}
}

func (a *Agent) ProposeSale(ctx context.Context, text, catalogue, today string) (*SaleProposal, error) {
	prompt := fmt.Sprintf(`You record sales for a reseller.
Read the seller's message and propose one sale.
Rules:
1. item_id MUST be an id from the catalogue below. If no item clearly matches, set item_id to 0 and ask in clarification.
2. sale_price is the price of ONE unit. Divide totals by the quantity.
3. Amounts are plain decimal strings (e.g. "20.00"). Use "0" for fees that are not mentioned.
4. sale_date defaults to today (%s) unless the message names a date.
5. Give a confidence score (0.0-1.0) and explain your reasoning.

Catalogue (id | title | sku | on hand | unit cost):
%s

Message: %s`, today, catalogue, text)

	schema, err := proposalSchema()
	if err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "sale_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schema,
					Description: param.NewOpt("A proposed sale record for a reseller's inventory item"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}
	return ParseProposal(resp.OutputText())
}

// ParseProposal decodes the structured model output.
func ParseProposal(content string) (*SaleProposal, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty response content")
	}
	var p SaleProposal
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &p, nil
}

// proposalSchema reflects SaleProposal into the map form the Responses API expects.
func proposalSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(&SaleProposal{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schema, nil
}
