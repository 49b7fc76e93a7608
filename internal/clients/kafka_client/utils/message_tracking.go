package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var messageMap sync.Map

// TrackMessage remembers the Kafka message a request arrived on so its offset
// can be committed once the result batch has been published.
func TrackMessage(requestID string, msg *kafka.Message) {
	messageMap.Store(requestID, msg)
}

func GetMessageForRequest(requestID string) (*kafka.Message, bool) {
	msg, ok := messageMap.Load(requestID)
	if !ok {
		return nil, false
	}
	messageMap.Delete(requestID)
	return msg.(*kafka.Message), true
}
