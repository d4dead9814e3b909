package studio

import (
	"context"
	"slices"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/ai"
)

const (
	// MinPromptLength is exclusive: a prompt must be longer than this.
	MinPromptLength        = 10
	DefaultImageSize       = "1K"
	CampaignFailureMessage = "Failed to generate campaign. Please try again."
)

type State string

const (
	StateIdle                   State = "idle"
	StateGeneratingCampaign     State = "generating_campaign"
	StateCampaignReady          State = "campaign_ready"
	StateGeneratingImage        State = "generating_image"
	StateCampaignReadyWithImage State = "campaign_ready_with_image"
	StateFailed                 State = "failed"
)

type Options struct {
	Logger    *zap.SugaredLogger
	Notifier  Notifier
	Clipboard Clipboard
	ImageSize string
}

// Orchestrator owns one campaign session: the prompt, the current campaign and
// its hero image, and the loading flags around the remote calls.
//
// Remote calls are made without holding the lock. Concurrent callers are gated,
// never queued.
type Orchestrator struct {
	gen       ai.Generator
	logger    *zap.SugaredLogger
	notifier  Notifier
	clipboard Clipboard
	changes   changeFeed

	mu           sync.Mutex
	prompt       string
	loading      bool
	imageLoading bool
	campaign     *ai.EmailCampaign
	image        string
	imageSize    string
	failed       bool
	// epoch increases with every accepted GenerateAll. Image results from an
	// older epoch belong to a cleared campaign and are dropped.
	epoch      uint64
	imageEpoch uint64
}

func NewOrchestrator(gen ai.Generator, opts Options) *Orchestrator {
	o := &Orchestrator{
		gen:       gen,
		logger:    opts.Logger,
		notifier:  opts.Notifier,
		clipboard: opts.Clipboard,
		imageSize: opts.ImageSize,
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}
	if o.notifier == nil {
		o.notifier = nopNotifier{}
	}
	if o.clipboard == nil {
		o.clipboard = nopClipboard{}
	}
	if o.imageSize == "" {
		o.imageSize = DefaultImageSize
	}
	return o
}

func (o *Orchestrator) SetPrompt(text string) {
	o.mu.Lock()
	o.prompt = text
	o.mu.Unlock()
	o.changes.notify()
}

func (o *Orchestrator) CanGenerate() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canGenerateLocked()
}

func (o *Orchestrator) canGenerateLocked() bool {
	return utf8.RuneCountInString(o.prompt) > MinPromptLength && !o.loading
}

// GenerateAll replaces the current campaign with a freshly generated one and
// then requests its hero image. It returns ErrGenerateRejected without calling
// the service when CanGenerate is false. A campaign failure is alerted and
// returned; an image failure is not.
func (o *Orchestrator) GenerateAll(ctx context.Context) error {
	o.mu.Lock()
	if !o.canGenerateLocked() {
		o.mu.Unlock()
		return ErrGenerateRejected
	}
	prompt := o.prompt
	o.loading = true
	o.failed = false
	o.campaign = nil
	o.image = ""
	o.imageLoading = false
	o.epoch++
	o.mu.Unlock()
	o.changes.notify()

	defer func() {
		o.mu.Lock()
		o.loading = false
		o.mu.Unlock()
		o.changes.notify()
	}()

	ctx = context.WithoutCancel(ctx)
	campaign, err := o.gen.GenerateCampaign(ctx, prompt)
	if err != nil {
		o.logger.Errorw("campaign generation failed", "error", err)
		o.mu.Lock()
		o.failed = true
		o.mu.Unlock()
		o.notifier.Alert(CampaignFailureMessage)
		return err
	}

	o.mu.Lock()
	o.campaign = &campaign
	o.mu.Unlock()
	o.changes.notify()

	if err := o.RegenerateImage(ctx); err != nil {
		o.logger.Warnw("automatic image generation skipped", "error", err)
	}
	return nil
}

// RegenerateImage requests a new hero image for the current campaign using the
// selected size label. It is a no-op without a campaign. Failures are logged and
// leave the previous image in place.
func (o *Orchestrator) RegenerateImage(ctx context.Context) error {
	o.mu.Lock()
	if o.campaign == nil {
		o.mu.Unlock()
		return nil
	}
	if o.imageLoading && o.imageEpoch == o.epoch {
		o.mu.Unlock()
		return ErrImageBusy
	}
	epoch := o.epoch
	visual := o.campaign.VisualPrompt
	size := o.imageSize
	o.imageLoading = true
	o.imageEpoch = epoch
	o.mu.Unlock()
	o.changes.notify()

	img, err := o.gen.GenerateImage(context.WithoutCancel(ctx), visual, size)

	o.mu.Lock()
	current := o.epoch == epoch
	if current {
		o.imageLoading = false
		if err == nil {
			o.image = img
		}
	}
	o.mu.Unlock()
	o.changes.notify()

	switch {
	case err != nil:
		o.logger.Warnw("image generation failed", "size", size, "error", err)
	case !current:
		o.logger.Debugw("dropping image for a replaced campaign", "epoch", epoch)
	}
	return nil
}

// SetImageSize stores the size label. It does not regenerate the image.
func (o *Orchestrator) SetImageSize(label string) {
	o.mu.Lock()
	o.imageSize = label
	o.mu.Unlock()
	o.changes.notify()
}

func (o *Orchestrator) CopyToClipboard(text string) {
	if err := o.clipboard.WriteText(text); err != nil {
		o.logger.Debugw("clipboard write failed", "error", err)
	}
}

// Subscribe returns a channel that receives a token after any state change,
// and a function that cancels the subscription. Tokens coalesce per
// subscriber; read Snapshot after receiving one.
func (o *Orchestrator) Subscribe() (<-chan struct{}, func()) { return o.changes.subscribe() }

type CampaignSnapshot struct {
	State        State             `json:"state"`
	Prompt       string            `json:"prompt"`
	CanGenerate  bool              `json:"canGenerate"`
	Loading      bool              `json:"loading"`
	ImageLoading bool              `json:"imageLoading"`
	Campaign     *ai.EmailCampaign `json:"campaign"`
	Image        string            `json:"image,omitempty"`
	ImageSize    string            `json:"imageSize"`
}

func (o *Orchestrator) Snapshot() CampaignSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := CampaignSnapshot{
		State:        o.stateLocked(),
		Prompt:       o.prompt,
		CanGenerate:  o.canGenerateLocked(),
		Loading:      o.loading,
		ImageLoading: o.imageLoading,
		Image:        o.image,
		ImageSize:    o.imageSize,
	}
	if o.campaign != nil {
		c := *o.campaign
		c.SubjectLines = slices.Clone(c.SubjectLines)
		s.Campaign = &c
	}
	return s
}

func (o *Orchestrator) stateLocked() State {
	switch {
	case o.loading && o.campaign == nil:
		return StateGeneratingCampaign
	case o.campaign != nil && o.imageLoading:
		return StateGeneratingImage
	case o.campaign != nil && o.image != "":
		return StateCampaignReadyWithImage
	case o.campaign != nil:
		return StateCampaignReady
	case o.failed:
		return StateFailed
	default:
		return StateIdle
	}
}
