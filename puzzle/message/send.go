package message

import (
	"context"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

// Send is a utility function for sending messages out on the channel.
// False is returned if the context is done before the message is sent.
// When debugging, it prints a message before and after the message is sent to help identify deadlocks.
func Send(ctx context.Context, m Message, out chan<- Message, debug bool, log log.Logger) bool {
	if debug {
		id := uuid.NewString()
		log.Printf("[id: %v] sending message: %v", id, m)
		defer log.Printf("[id: %v] message sent", id)
	}
	select {
	case <-ctx.Done():
		return false
	case out <- m:
		return true
	}
}
