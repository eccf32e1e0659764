package thirdparty

// NewGenerationMetadata builds metadata from the commonly set fields.
func NewGenerationMetadata(module, sourceDocumentID, filterString, originalPrompt string) *GenerationMetadata {
	return &GenerationMetadata{
		Module:           module,
		SourceDocumentID: sourceDocumentID,
		FilterString:     filterString,
		OriginalPrompt:   originalPrompt,
	}
}

// NewReferenceBlob builds a reference blob. promptReference < 0 omits it.
func NewReferenceBlob(id, usage string, promptReference int) ReferenceBlob {
	b := ReferenceBlob{ID: id, Usage: usage}
	if promptReference >= 0 {
		ref := promptReference
		b.PromptReference = &ref
	}
	return b
}

// GeminiFlashParams are the inputs of GeminiFlashOptions.
type GeminiFlashParams struct {
	N              int
	Seeds          []int64
	ReferenceBlobs []ReferenceBlob
	StoreInputs    bool
	Module         string
}

// GeminiFlashOptions builds options for gemini-flash (nano-banana).
// Defaults: n=1, seeds=[1], module "text2image".
func GeminiFlashOptions(p GeminiFlashParams) *Options {
	n := p.N
	if n == 0 {
		n = 1
	}
	seeds := p.Seeds
	if len(seeds) == 0 {
		seeds = []int64{1}
	}
	module := p.Module
	if module == "" {
		module = "text2image"
	}
	store := p.StoreInputs
	return &Options{
		ModelID:            ModelGeminiFlash,
		ModelVersion:       VersionGeminiFlashNanoBanana,
		N:                  n,
		Seeds:              seeds,
		Output:             &Output{StoreInputs: &store},
		ReferenceBlobs:     p.ReferenceBlobs,
		GenerationMetadata: &GenerationMetadata{Module: module},
	}
}
