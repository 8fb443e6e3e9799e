package pattern

// MetaPhraseConfig configures a MetaPhrase wrapper.
type MetaPhraseConfig struct {
	Main, Fill     Pattern
	BarsOfMain     int
	BarsOfFill     int
	BarLengthSteps int // default 16
	OnPhraseStart  func(phraseIndex int)
	OnPhraseEnd    func(previousPhraseIndex int)
}

// MetaPhrase composes two sub-patterns into an A/B phrase, e.g. N bars of
// main plus M bars of fill.
type MetaPhrase struct {
	main, fill    Pattern
	mainSteps     int
	length        int
	onPhraseStart func(int)
	onPhraseEnd   func(int)

	lastPhraseIndex  int
	phraseIndexKnown bool

	cachedStep    int
	cachedStepSet bool
	cachedResult  []NoteEvent
}

// NewMetaPhrase builds a MetaPhrase wrapper from cfg.
func NewMetaPhrase(cfg MetaPhraseConfig) *MetaPhrase {
	barLen := cfg.BarLengthSteps
	if barLen <= 0 {
		barLen = 16
	}
	mainSteps := cfg.BarsOfMain * barLen
	length := (cfg.BarsOfMain + cfg.BarsOfFill) * barLen
	if length <= 0 {
		length = barLen
	}
	return &MetaPhrase{
		main:          cfg.Main,
		fill:          cfg.Fill,
		mainSteps:     mainSteps,
		length:        length,
		onPhraseStart: cfg.OnPhraseStart,
		onPhraseEnd:   cfg.OnPhraseEnd,
	}
}

func (p *MetaPhrase) Length() int { return p.length }

// Reset forwards to sub-patterns if they support it.
func (p *MetaPhrase) Reset() {
	if r, ok := p.main.(Resettable); ok {
		r.Reset()
	}
	if r, ok := p.fill.(Resettable); ok {
		r.Reset()
	}
	p.lastPhraseIndex = 0
	p.phraseIndexKnown = false
	p.cachedStepSet = false
}

func (p *MetaPhrase) NotesAt(step int, ctx *Context) []NoteEvent {
	if p.cachedStepSet && p.cachedStep == step {
		return p.cachedResult
	}

	phraseIndex := step / p.length
	if p.phraseIndexKnown && phraseIndex != p.lastPhraseIndex {
		if p.onPhraseEnd != nil {
			p.onPhraseEnd(p.lastPhraseIndex)
		}
		if p.onPhraseStart != nil {
			p.onPhraseStart(phraseIndex)
		}
	} else if !p.phraseIndexKnown && p.onPhraseStart != nil {
		p.onPhraseStart(phraseIndex)
	}
	p.lastPhraseIndex = phraseIndex
	p.phraseIndexKnown = true

	stepInPhrase := step % p.length
	if stepInPhrase < 0 {
		stepInPhrase += p.length
	}

	var result []NoteEvent
	if stepInPhrase < p.mainSteps {
		result = p.main.NotesAt(step, ctx)
	} else {
		result = p.fill.NotesAt(step, ctx)
	}

	p.cachedStep = step
	p.cachedStepSet = true
	p.cachedResult = result
	return result
}
