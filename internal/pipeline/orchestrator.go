package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/menulens/menulens-api/internal/config"
	"github.com/menulens/menulens-api/internal/domain"
	"github.com/menulens/menulens-api/internal/events"
	"github.com/menulens/menulens-api/internal/extraction"
	"github.com/menulens/menulens-api/internal/imagecache"
	"github.com/menulens/menulens-api/internal/metrics"
	"github.com/menulens/menulens-api/internal/synthesis"
	"github.com/menulens/menulens-api/internal/translation"
)

// Image resolution sources, reported to metrics and used to decide the
// fallback flag on image_generated events.
const (
	sourceCache       = "cache"
	sourceFallback    = "fallback"
	sourceSynthesized = "synthesized"
	sourcePlaceholder = "placeholder"
)

// Orchestrator sequences the three stages for one session and communicates
// every outcome through the events emitter; Run never returns an error to
// its caller.
type Orchestrator struct {
	extractor   extraction.Extractor
	translator  translation.Translator
	synthesizer synthesis.Synthesizer
	cache       *imagecache.Cache
	emitter     events.Emitter
	recorder    *metrics.Recorder
	logger      *slog.Logger
	cfg         config.PipelineConfig
}

// NewOrchestrator builds an Orchestrator from explicitly constructed
// dependencies. recorder may be nil.
func NewOrchestrator(
	extractor extraction.Extractor,
	translator translation.Translator,
	synthesizer synthesis.Synthesizer,
	cache *imagecache.Cache,
	emitter events.Emitter,
	recorder *metrics.Recorder,
	cfg config.PipelineConfig,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor:   extractor,
		translator:  translator,
		synthesizer: synthesizer,
		cache:       cache,
		emitter:     emitter,
		recorder:    recorder,
		logger:      logger.With("component", "orchestrator"),
		cfg:         cfg,
	}
}

// resolvedImage is the per-item outcome of the synthesis stage.
type resolvedImage struct {
	ItemName string
	URL      string
	Source   string
	ErrMsg   string
	Elapsed  time.Duration
}

// Run executes the pipeline for one session. Stages run strictly in order;
// extraction and translation failures are terminal, while synthesis
// degrades per item and never prevents the final summary event.
func (o *Orchestrator) Run(ctx context.Context, session *domain.Session) {
	logger := o.logger.With("session_id", session.ID)
	start := time.Now()

	// Stage 1: text extraction.
	extracted, extractionTime, ok := o.runExtraction(ctx, session)
	if !ok {
		return
	}

	// Stage 2: structured translation.
	items, translationTime, ok := o.runTranslation(ctx, session, extracted.Text)
	if !ok {
		return
	}

	// Stage 3: image synthesis (best-effort).
	var synthesisTime time.Duration
	if session.GenerateImages && len(items) > 0 {
		items, synthesisTime = o.runSynthesis(ctx, session, items)
	}

	o.emitter.Emit(ctx, session.ID, events.ProcessingComplete(time.Since(start), events.Summary{
		ExtractionTime:  extractionTime.Milliseconds(),
		TranslationTime: translationTime.Milliseconds(),
		SynthesisTime:   synthesisTime.Milliseconds(),
		ItemCount:       len(items),
	}))

	logger.InfoContext(ctx, "session processing complete",
		"item_count", len(items),
		"total_ms", time.Since(start).Milliseconds())
}

func (o *Orchestrator) runExtraction(ctx context.Context, session *domain.Session) (extraction.Result, time.Duration, bool) {
	logger := o.logger.With("session_id", session.ID, "stage", "extraction")
	stageStart := time.Now()

	o.emitter.Emit(ctx, session.ID, events.StageStarted(events.StageExtraction))
	o.emitter.Emit(ctx, session.ID, events.StageProgress(events.StageExtraction,
		"analyzing", "Analyzing menu photo", nil))

	result, err := o.extractor.ExtractText(ctx, session.Image, session.MimeType)
	elapsed := time.Since(stageStart)

	if err == nil && len(strings.TrimSpace(result.Text)) < o.cfg.MinExtractedTextSize {
		err = extraction.ErrUnreadableText
	}
	if err != nil {
		message := err.Error()
		if errors.Is(err, extraction.ErrUnreadableText) {
			message = "Unable to extract readable text"
		}
		logger.ErrorContext(ctx, "extraction failed", "error", err, "elapsed_ms", elapsed.Milliseconds())
		o.recorder.ObserveStage("extraction", "error", elapsed)
		o.emitter.Emit(ctx, session.ID,
			events.StageError(events.StageExtraction, message, elapsed))
		return extraction.Result{}, elapsed, false
	}

	o.recorder.ObserveStage("extraction", "success", elapsed)
	o.emitter.Emit(ctx, session.ID, events.StageComplete(events.StageExtraction,
		events.ExtractionCompletePayload{
			Text:           result.Text,
			Confidence:     result.Confidence,
			ProcessingTime: elapsed.Milliseconds(),
		}))

	logger.InfoContext(ctx, "extraction complete",
		"text_length", len(result.Text),
		"confidence", result.Confidence)
	return result, elapsed, true
}

func (o *Orchestrator) runTranslation(ctx context.Context, session *domain.Session, rawText string) ([]domain.MenuItem, time.Duration, bool) {
	logger := o.logger.With("session_id", session.ID, "stage", "translation")
	stageStart := time.Now()

	o.emitter.Emit(ctx, session.ID, events.StageStarted(events.StageTranslation))
	o.emitter.Emit(ctx, session.ID, events.StageProgress(events.StageTranslation,
		"translating", "Translating menu to "+session.TargetLanguage, nil))

	items, err := WithRetry(ctx, o.cfg.TranslationAttempts, o.cfg.TranslationBackoff,
		func(ctx context.Context) ([]domain.MenuItem, error) {
			return o.translator.TranslateMenu(ctx, rawText, session.TargetLanguage)
		})
	elapsed := time.Since(stageStart)

	if err != nil {
		if errors.Is(err, translation.ErrMalformedOutput) {
			// Schema violations degrade to a single placeholder item so the
			// session still reaches a terminal summary.
			logger.WarnContext(ctx, "translation output malformed, substituting placeholder item",
				"error", err)
			items = []domain.MenuItem{translation.PlaceholderItem(rawText)}
		} else {
			logger.ErrorContext(ctx, "translation failed", "error", err, "elapsed_ms", elapsed.Milliseconds())
			o.recorder.ObserveStage("translation", "error", elapsed)
			o.emitter.Emit(ctx, session.ID,
				events.StageError(events.StageTranslation, err.Error(), elapsed))
			return nil, elapsed, false
		}
	}

	valid := items[:0]
	for i := range items {
		if vErr := items[i].Validate(); vErr != nil {
			logger.WarnContext(ctx, "dropping invalid menu item", "error", vErr)
			continue
		}
		valid = append(valid, items[i])
	}
	items = valid
	if len(items) == 0 {
		items = []domain.MenuItem{translation.PlaceholderItem(rawText)}
	}

	o.recorder.ObserveStage("translation", "success", elapsed)
	o.emitter.Emit(ctx, session.ID, events.StageComplete(events.StageTranslation,
		events.TranslationCompletePayload{
			Items:          items,
			ItemCount:      len(items),
			ProcessingTime: elapsed.Milliseconds(),
		}))

	logger.InfoContext(ctx, "translation complete", "item_count", len(items))
	return items, elapsed, true
}

// runSynthesis fans the items out through the batch scheduler and attaches
// an image reference to every one of them. Individual failures substitute
// a placeholder; the stage as a whole always completes.
func (o *Orchestrator) runSynthesis(ctx context.Context, session *domain.Session, items []domain.MenuItem) ([]domain.MenuItem, time.Duration) {
	logger := o.logger.With("session_id", session.ID, "stage", "synthesis")
	stageStart := time.Now()

	o.emitter.Emit(ctx, session.ID, events.StageStarted(events.StageSynthesis))

	worker := func(ctx context.Context, item domain.MenuItem) (resolvedImage, error) {
		return o.resolveImage(ctx, item)
	}
	fallback := func(item domain.MenuItem, err error) resolvedImage {
		o.recorder.ObserveImageResolution(sourcePlaceholder)
		return resolvedImage{
			ItemName: item.Name,
			URL:      synthesis.PlaceholderURL(item.Name),
			Source:   sourcePlaceholder,
			ErrMsg:   err.Error(),
		}
	}
	onResult := func(completed, total int, res WorkResult[resolvedImage]) {
		progress := events.ProgressCounter{
			Current:    completed,
			Total:      total,
			Percentage: Percentage(completed, total),
		}
		o.emitter.Emit(ctx, session.ID, events.ImageGenerated(events.ImageGeneratedPayload{
			ImageURL:       res.Value.URL,
			ItemName:       res.Value.ItemName,
			ProcessingTime: res.Value.Elapsed.Milliseconds(),
			Progress:       progress,
			Fallback:       res.Value.Source != sourceSynthesized && res.Value.Source != sourceCache,
			Error:          res.Value.ErrMsg,
		}))
		o.emitter.Emit(ctx, session.ID, events.StageProgress(events.StageSynthesis,
			"generating", "Generating dish images", &progress))
	}

	results := RunBatched(ctx, items, o.cfg.BatchSize, o.cfg.BatchPause, worker, fallback, onResult)

	for i := range items {
		items[i].ImageURL = results[i].Value.URL
	}
	elapsed := time.Since(stageStart)

	failures := 0
	for _, res := range results {
		if res.Failed() {
			failures++
		}
	}
	if failures > 0 {
		// Synthesis errors are non-fatal: report them and let the pipeline
		// finish with whatever images resolved.
		logger.WarnContext(ctx, "some images fell back to placeholders",
			"failures", failures, "total", len(items))
		o.recorder.ObserveStage("synthesis", "degraded", elapsed)
		o.emitter.Emit(ctx, session.ID,
			events.StageError(events.StageSynthesis, "some images could not be generated", elapsed))
	} else {
		o.recorder.ObserveStage("synthesis", "success", elapsed)
	}

	o.emitter.Emit(ctx, session.ID, events.StageComplete(events.StageSynthesis,
		events.SynthesisCompletePayload{
			Items:          items,
			ProcessingTime: elapsed.Milliseconds(),
		}))

	logger.InfoContext(ctx, "synthesis complete",
		"item_count", len(items), "failures", failures)
	return items, elapsed
}

// resolveImage finds an image reference for one item: cached entry first,
// then the static keyword fallback, then a live synthesis call. Only the
// synthesis path calls the external engine or writes to the cache; a
// synthesis failure is returned as an error for the batch scheduler to
// convert into a placeholder result.
func (o *Orchestrator) resolveImage(ctx context.Context, item domain.MenuItem) (resolvedImage, error) {
	itemStart := time.Now()

	if entry, ok := o.cache.Get(ctx, item.Name); ok {
		o.recorder.ObserveImageResolution(sourceCache)
		return resolvedImage{
			ItemName: item.Name,
			URL:      entry.ImageURL,
			Source:   sourceCache,
			Elapsed:  time.Since(itemStart),
		}, nil
	}

	if url, ok := o.cache.FallbackFor(item.Name); ok {
		o.recorder.ObserveImageResolution(sourceFallback)
		return resolvedImage{
			ItemName: item.Name,
			URL:      url,
			Source:   sourceFallback,
			Elapsed:  time.Since(itemStart),
		}, nil
	}

	url, err := WithRetry(ctx, o.cfg.SynthesisAttempts, o.cfg.SynthesisBackoff,
		func(ctx context.Context) (string, error) {
			return o.synthesizer.SynthesizeImage(ctx, item.Name, item.Description)
		})
	if err != nil {
		return resolvedImage{}, err
	}

	o.cache.Put(ctx, item.Name, item.Description, url)
	o.recorder.ObserveImageResolution(sourceSynthesized)
	return resolvedImage{
		ItemName: item.Name,
		URL:      url,
		Source:   sourceSynthesized,
		Elapsed:  time.Since(itemStart),
	}, nil
}
