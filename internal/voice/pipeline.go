package voice

import (
	"context"

	"github.com/rs/zerolog/log"
	cerr "github.com/saeidalz13/battleship-voice-backend/internal/error"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
	"github.com/saeidalz13/battleship-voice-backend/models/command"
)

// Pipeline runs an utterance through transcription and classification
// and hands the result to the interpreter. Collaborator failures never
// reach the game; they come back as "no command produced".
type Pipeline struct {
	classifier  Classifier
	transcriber Transcriber
}

// A nil classifier falls back to the keyword classifier. A nil
// transcriber means audio cannot be accepted.
func NewPipeline(classifier Classifier, transcriber Transcriber) *Pipeline {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &Pipeline{classifier: classifier, transcriber: transcriber}
}

// FromText interprets an already transcribed utterance. When the client
// supplies a label it is used as is; otherwise the classifier picks one.
func (p *Pipeline) FromText(ctx context.Context, text, label string) mb.Command {
	if label == "" {
		classified, err := p.classifier.Classify(ctx, command.Normalize(text))
		if err != nil {
			log.Debug().Err(err).Str("text", text).Msg("classification failed")
			return mb.NewInvalid(command.ReasonClassificationFailed, err)
		}
		label = classified
	}

	cmd := command.Interpret(text, label)
	log.Debug().Str("text", text).Str("label", label).Str("kind", cmd.Kind()).Msg("interpreted utterance")
	return cmd
}

// FromAudio returns the transcript alongside the command so callers can
// echo what was heard.
func (p *Pipeline) FromAudio(ctx context.Context, audio []byte) (mb.Command, string, error) {
	if p.transcriber == nil {
		return nil, "", cerr.ErrCollaboratorFailed(cerr.ErrServiceUnavailable)
	}

	text, err := p.transcriber.Transcribe(ctx, audio)
	if err != nil {
		log.Debug().Err(err).Int("audio_bytes", len(audio)).Msg("transcription failed")
		return nil, "", cerr.ErrCollaboratorFailed(err)
	}

	return p.FromText(ctx, text, ""), text, nil
}
