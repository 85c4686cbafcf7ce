package orchestration

import (
	"context"
	"strings"
	"sync"

	"github.com/vijay-kartik/voice-ai-agent/core/events"
	"go.opentelemetry.io/otel/codes"
)

// apologeticReply is spoken when turn processing itself blows up, so the
// user hears something instead of dead air.
const apologeticReply = "I'm sorry, something went wrong on my end. Could you say that again?"

// turnController serializes turn processing. Exactly one turn is in flight
// at a time; turns arriving while the lock is held are dropped, as is a
// turn repeating the text of the last accepted one (double-fire protection
// for duplicate endpoint commits).
//
// The lock is released when the turn's response has been dispatched to
// playback, on every path out of the pipeline, including panics.
type turnController struct {
	mu               sync.Mutex
	processing       bool
	processingTurnID string
	lastAcceptedText string

	conversation *conversationLog
	responder    *responder
	presets      *presetCatalogue
	speech       *speechPipeline
	emit         eventEmitter
}

func newTurnController(conversation *conversationLog, responder *responder, presets *presetCatalogue, speech *speechPipeline) *turnController {
	return &turnController{
		conversation: conversation,
		responder:    responder,
		presets:      presets,
		speech:       speech,
		emit:         noopEventEmitter,
	}
}

func (c *turnController) setEmitter(emit eventEmitter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if emit == nil {
		emit = noopEventEmitter
	}
	c.emit = emit
}

// Submit runs the guard chain and, if the turn is accepted, processes it
// synchronously. It reports whether the turn was accepted.
func (c *turnController) Submit(ctx context.Context, turn Turn) bool {
	c.mu.Lock()
	if strings.TrimSpace(turn.Text) == "" {
		c.mu.Unlock()
		return false
	}
	if c.processing {
		c.mu.Unlock()
		logger.Debug("dropping turn, another is in flight", "turnID", turn.ID)
		return false
	}
	if turn.Text == c.lastAcceptedText {
		c.mu.Unlock()
		logger.Debug("dropping duplicate turn", "turnID", turn.ID)
		return false
	}
	c.processing = true
	c.processingTurnID = turn.ID
	c.lastAcceptedText = turn.Text
	emit := c.emit
	c.mu.Unlock()

	c.process(ctx, turn, emit)
	return true
}

// Processing reports whether a turn currently holds the lock.
func (c *turnController) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

func (c *turnController) process(ctx context.Context, turn Turn, emit eventEmitter) {
	// Registered before releaseLock so the lock is already free by the time
	// the panic is swallowed.
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("turn processing panicked", "turnID", turn.ID, "panic", recovered)
		}
	}()
	defer c.releaseLock(turn.ID)

	ctx, span := tracer.Start(ctx, "process turn")
	defer span.End()

	userMessage := c.conversation.append(events.MessageRoleUser, turn.Text, "", "")
	emit(events.NewMessageAppended(userMessage.ID, userMessage.Role, userMessage.Text, "", ""))

	response := c.respond(turn.Text)

	agentMessage := c.conversation.append(events.MessageRoleAgent, response.Text, response.Emotion, response.VoiceStyle)
	emit(events.NewMessageAppended(agentMessage.ID, agentMessage.Role, agentMessage.Text,
		string(response.Emotion), string(response.VoiceStyle)))

	preset := c.presets.PresetFor(response.VoiceStyle)
	if err := c.speech.Speak(ctx, response.Text, preset); err != nil {
		// The reply is already in the log; a silent turn is better than a
		// stalled conversation.
		recordedErr := &PipelineError{Stage: StageSpeech, Err: err}
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		logger.Error("turn response could not be spoken", "turnID", turn.ID, "error", err)
	}
}

// respond classifies and generates the reply, converting a panic anywhere
// inside into the apologetic fallback so the lock still releases and the
// user still hears something.
func (c *turnController) respond(text string) (response Response) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("turn pipeline panicked, using fallback reply", "panic", recovered)
			response = Response{
				Text:       apologeticReply,
				Intent:     IntentConversation,
				Emotion:    EmotionNeutral,
				VoiceStyle: StyleFriendly,
			}
		}
	}()
	return c.responder.Respond(text)
}

func (c *turnController) releaseLock(turnID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing && c.processingTurnID == turnID {
		c.processing = false
		c.processingTurnID = ""
	}
}
