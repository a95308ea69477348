package handlers

import (
	"context"
	"log"

	"go-vedura/knowledge"
	"go-vedura/llm"
	"go-vedura/types"
)

// composeReply builds the chatbot answer for one message. Rule-based
// guidance wins when any symptom matched; otherwise the generative
// fallback is tried, and on failure (or in rule-only mode) the fixed
// fallback message is used. Never returns an error to the user.
//
// The fallback call happens here, before any detector or store lock is
// taken, so external latency cannot stall other ingestions.
func composeReply(ctx context.Context, ai llm.Client, message, lang string, symptoms []types.Symptom) string {
	if len(symptoms) > 0 {
		return knowledge.BuildResponse(symptoms, lang)
	}

	if ai != nil {
		reply, err := ai.Reply(ctx, message, lang)
		if err != nil {
			log.Printf("Generative fallback failed, using fixed message: %v", err)
		} else if reply != "" {
			return reply
		}
	}

	return knowledge.FallbackMessage(lang)
}
