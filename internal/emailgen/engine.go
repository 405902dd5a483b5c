// Package emailgen runs the streamed email-generation flow: build a prompt
// from the catalog and the selected customer, open one streaming
// chat-completion call, and append fragments to the session buffer as they
// arrive.
package emailgen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dimitrije/salesdesk-api/internal/catalog"
	"github.com/dimitrije/salesdesk-api/internal/config"
	"github.com/dimitrije/salesdesk-api/internal/llm"
	"github.com/dimitrije/salesdesk-api/internal/models"
	"github.com/dimitrije/salesdesk-api/internal/state"
)

// NoCustomerMessage is shown inline in place of generated content when a
// generation is requested with no customer selected.
const NoCustomerMessage = "Error: No user selected"

var errSuperseded = errors.New("generation superseded")

// ChatStreamer is the chat-completion boundary as the engine consumes it.
type ChatStreamer interface {
	StreamChatCompletion(ctx context.Context, req llm.ChatRequest, fn func(delta string) error) error
}

// Recorder receives generation lifecycle metrics.
type Recorder interface {
	RecordGenerationStarted()
	RecordGenerationCompleted()
	RecordGenerationFailed()
	RecordGenerationSkipped()
	RecordChunk()
	RecordGenerationDuration(d time.Duration)
}

type Engine struct {
	streamer ChatStreamer
	recorder Recorder
	model    string
	company  string
	website  string
	products []catalog.Product
}

func New(streamer ChatStreamer, recorder Recorder, cfg config.OpenAIConfig) *Engine {
	return &Engine{
		streamer: streamer,
		recorder: recorder,
		model:    cfg.Model,
		company:  cfg.Company,
		website:  cfg.Website,
		products: catalog.Products(),
	}
}

// Start begins a generation for the session's selected customer. It returns
// once the background writer is running (or the precondition failed); the
// result is observed through the session state, not a return value.
// callerToken is forwarded upstream for attribution.
func (e *Engine) Start(ctx context.Context, sess *state.Session, callerToken string) {
	customer := sess.SelectedCustomer()
	if customer == nil {
		sess.FailGeneration(NoCustomerMessage)
		e.recorder.RecordGenerationSkipped()
		return
	}

	tone, length := sess.Options()
	epoch := sess.BeginGeneration()
	e.recorder.RecordGenerationStarted()

	req := llm.ChatRequest{
		Model: e.model,
		User:  callerToken,
		Messages: []llm.Message{
			{Role: "system", Content: e.systemPrompt(tone, length)},
			{Role: "user", Content: e.userPrompt(customer)},
		},
	}

	go e.run(ctx, sess, epoch, req)
}

func (e *Engine) run(ctx context.Context, sess *state.Session, epoch uint64, req llm.ChatRequest) {
	start := time.Now()

	// Superseding cancels the upstream call outright rather than letting it
	// stream into the void.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := e.streamer.StreamChatCompletion(ctx, req, func(delta string) error {
		if !sess.AppendChunk(epoch, delta) {
			return errSuperseded
		}
		e.recorder.RecordChunk()
		return nil
	})

	e.recorder.RecordGenerationDuration(time.Since(start))

	if errors.Is(err, errSuperseded) {
		// A newer generation owns the buffer and the flag now.
		return
	}

	if err != nil {
		// Partial text stays visible; the flag is cleared, no retry.
		log.Printf("email generation failed for session %s: %v", sess.ID, err)
		e.recorder.RecordGenerationFailed()
	} else {
		e.recorder.RecordGenerationCompleted()
	}

	sess.EndGeneration(epoch)
}

func (e *Engine) systemPrompt(tone, length string) string {
	return fmt.Sprintf(
		"You are a salesperson at %s, a company that sells clothing. You have a list of products and customer data. "+
			"Your task is to write a sales email to a customer recommending one of the products. "+
			"The email should be personalized and include a recommendation based on the customer's data. "+
			"The email should be %s and %s characters long.",
		e.company, tone, length,
	)
}

func (e *Engine) userPrompt(customer *models.User) string {
	var sb strings.Builder
	sb.WriteString("Based on these products:\n")
	for _, p := range e.products {
		fmt.Fprintf(&sb, "- %s ($%.2f): %s\n", p.Name, p.Price, p.Description)
	}
	fmt.Fprintf(&sb,
		"write a sales email to %s with email %s who is %d years old and a %s gender. "+
			"%s lives in %s and works as a %s and earns %d per year. "+
			"Make sure the email recommends one product only and is personalized to %s. "+
			"The company is named %s and its website is %s.",
		customer.Name(), customer.Email, customer.AgeValue(), customer.GenderValue(),
		customer.Name(), customer.LocationValue(), customer.JobValue(), customer.SalaryValue(),
		customer.Name(), e.company, e.website,
	)
	return sb.String()
}
