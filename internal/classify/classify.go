// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps a free-form research query to a category, a refined
// search query and strategy hints using one inference call.
package classify

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/research-agent/internal/inference"
	"github.com/pdiddy/research-agent/internal/logging"
	"github.com/pdiddy/research-agent/pkg/types"
)

const systemPrompt = "You are a research intent detection specialist. Analyze queries and determine the best research approach."

var intentPromptTmpl = template.Must(template.New("intent").Parse(`Analyze this user query and determine the research intent.

Query: "{{.Query}}"

1. Research Type: choose one of
{{- range .Types}}
   - {{.ID}}: {{.About}}
{{- end}}
   If the query names a university or college, choose educational.
   If the query compares specific products head to head, choose product.
   If nothing above fits, choose general.
2. Refined Query: a detailed search query with specific terms, time context and comparison elements.
3. Research Focus: the aspects to research.
4. Expected Output: the information to return.
5. Search Keywords: 5-10 comma-separated keywords for web search.
6. Context Notes: constraints or extra context.

Reply with exactly these lines:
Research Type: [type]
Refined Query: [query]
Research Focus: [focus]
Expected Output: [output]
Search Keywords: [keyword1, keyword2, ...]
Context Notes: [notes]
`))

type typeDoc struct {
	ID    types.Category
	About string
}

var typeDocs = []typeDoc{
	{types.CategoryDeveloperTools, "programming tools, frameworks, APIs, development platforms"},
	{types.CategoryProduct, "consumer products, gadgets, purchases, product comparisons"},
	{types.CategoryEducational, "universities, courses, programs, educational choices"},
	{types.CategoryFinancial, "stocks, investments, financial products"},
	{types.CategoryTechnical, "API docs, technical specs, code documentation"},
	{types.CategoryIndustry, "market trends, industry insights, sector analysis"},
	{types.CategoryMarket, "companies, competitive analysis, business decisions"},
	{types.CategoryGeneral, "weather, general knowledge, mixed or novel topics"},
}

// Classifier assigns categories with an inference backend.
type Classifier struct {
	Backend inference.Backend
	Log     *zap.Logger
}

// New returns a Classifier; a nil logger discards output.
func New(b inference.Backend, log *zap.Logger) *Classifier {
	return &Classifier{Backend: b, Log: logging.OrNop(log)}
}

// Classify validates text and classifies it. The only error is
// types.ErrEmptyQuery; inference failures degrade to the market category with
// the original text as the refined query and empty hints.
func (c *Classifier) Classify(ctx context.Context, text string) (types.ResearchQuery, error) {
	q, err := types.NewResearchQuery(text)
	if err != nil {
		return types.ResearchQuery{}, err
	}
	log := logging.OrNop(c.Log)

	prompt, err := renderPrompt(q.Original)
	if err != nil {
		return types.ResearchQuery{}, fmt.Errorf("rendering intent prompt: %w", err)
	}

	reply, err := c.Backend.Invoke(ctx, systemPrompt, prompt)
	if err != nil {
		log.Warn("classification failed, using market", zap.Error(err))
		return q.Classified(types.CategoryMarket, "", types.StrategyHints{}), nil
	}

	fields := inference.ParseFields(reply)
	raw, ok := fields["research_type"]
	if !ok {
		log.Warn("classification reply has no research type, using market",
			zap.Error(inference.ErrMalformedResponse))
		return q.Classified(types.CategoryMarket, "", types.StrategyHints{}), nil
	}

	category := Override(q.Original, Canonical(raw))
	hints := HintsFor(category)
	hints.ResearchFocus = fields["research_focus"]
	hints.ExpectedOutput = fields["expected_output"]
	hints.Keywords = fields["search_keywords"]
	hints.ContextNotes = fields["context_notes"]

	log.Debug("classified",
		zap.String("model_type", raw),
		zap.String("category", string(category)))
	return q.Classified(category, fields["refined_query"], hints), nil
}

func renderPrompt(query string) (string, error) {
	var buf bytes.Buffer
	err := intentPromptTmpl.Execute(&buf, struct {
		Query string
		Types []typeDoc
	}{query, typeDocs})
	return buf.String(), err
}

// synonyms is the single mapping from model output labels to categories.
// Labels are compared after NormalizeKey.
var synonyms = map[string]types.Category{
	"developer_tools":          types.CategoryDeveloperTools,
	"dev_tools":                types.CategoryDeveloperTools,
	"developer_tools_research": types.CategoryDeveloperTools,

	"product":            types.CategoryProduct,
	"product_review":     types.CategoryProduct,
	"product_comparison": types.CategoryProduct,
	"product_research":   types.CategoryProduct,

	"educational":            types.CategoryEducational,
	"educational_comparison": types.CategoryEducational,
	"university_comparison":  types.CategoryEducational,
	"educational_research":   types.CategoryEducational,

	"financial":           types.CategoryFinancial,
	"financial_analysis":  types.CategoryFinancial,
	"investment_analysis": types.CategoryFinancial,
	"financial_research":  types.CategoryFinancial,

	"technical":               types.CategoryTechnical,
	"technical_documentation": types.CategoryTechnical,
	"api_documentation":       types.CategoryTechnical,
	"technical_research":      types.CategoryTechnical,

	"industry":          types.CategoryIndustry,
	"industry_analysis": types.CategoryIndustry,
	"market_analysis":   types.CategoryIndustry,
	"industry_research": types.CategoryIndustry,

	"market":          types.CategoryMarket,
	"market_research": types.CategoryMarket,

	"general":          types.CategoryGeneral,
	"general_research": types.CategoryGeneral,
	"weather":          types.CategoryGeneral,
	"knowledge":        types.CategoryGeneral,
}

// Canonical maps a model label to a category. Unrecognized labels map to
// market.
func Canonical(label string) types.Category {
	key := inference.NormalizeKey(strings.Trim(label, "\"'`[]() "))
	if c, ok := synonyms[key]; ok {
		return c
	}
	return types.CategoryMarket
}

var (
	educationalPattern = regexp.MustCompile(`(?i)\b(university|college)\b`)
	versusPattern      = regexp.MustCompile(`(?i)\b(vs\.?|versus)(\s|$)`)
)

// Override applies keyword rules to the model's category. University and
// college mentions always force educational; head-to-head comparisons turn
// a market or general answer into product.
func Override(query string, c types.Category) types.Category {
	if educationalPattern.MatchString(query) {
		return types.CategoryEducational
	}
	if versusPattern.MatchString(query) && (c == types.CategoryMarket || c == types.CategoryGeneral) {
		return types.CategoryProduct
	}
	return c
}
