package spawn

// Plan is the analysed form of one command file.
type Plan struct {
	Directives []Directive  `json:"directives"`
	Groups     []PhaseGroup `json:"groups"`
}

// Empty reports whether the document declared no directives.
func (p Plan) Empty() bool {
	return len(p.Directives) == 0
}

// Apply appends the rendered instructions for p to content, the text p was
// analysed from. An empty plan leaves content untouched.
func (p Plan) Apply(content string) string {
	if p.Empty() {
		return content
	}
	return content + RenderInstructions(p.Groups)
}

// Process appends spawn instructions to content. Content without any
// directive is returned unchanged.
func Process(content string) string {
	return defaultProcessor.Process(content)
}

// Analyze extracts and groups the directives in content.
func Analyze(content string) Plan {
	return defaultProcessor.Analyze(content)
}

var defaultProcessor = &Processor{aliases: builtinAliases}

// Processor runs the pipeline with a fixed alias table.
type Processor struct {
	aliases map[string]string
}

// Option customizes processor construction.
type Option func(*Processor)

// WithAliases layers overrides on top of the builtin alias table. Later
// calls win on conflicting keys.
func WithAliases(overrides map[string]string) Option {
	return func(p *Processor) {
		for alias, handler := range overrides {
			p.aliases[alias] = handler
		}
	}
}

// NewProcessor builds a processor over a private copy of the builtin table.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{aliases: DefaultAliases()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Resolve maps alias to a handler using this processor's table.
func (p *Processor) Resolve(alias string) string {
	return resolveIn(p.table(), alias)
}

// Aliases returns a copy of the effective alias table.
func (p *Processor) Aliases() map[string]string {
	return cloneAliases(p.table())
}

// Analyze extracts directives, then assigns them to phase groups.
func (p *Processor) Analyze(content string) Plan {
	directives := Extract(content, p.Resolve)
	if len(directives) == 0 {
		return Plan{}
	}
	return Plan{
		Directives: directives,
		Groups:     GroupByPhase(content, directives),
	}
}

// Process returns content with the spawn addendum appended.
func (p *Processor) Process(content string) string {
	return p.Analyze(content).Apply(content)
}

func (p *Processor) table() map[string]string {
	if p == nil || p.aliases == nil {
		return builtinAliases
	}
	return p.aliases
}
