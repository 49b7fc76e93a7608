package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUEST = "analysis-request" // raw documents waiting for sentiment analysis
	KAFKA_TOPIC_ANALYSIS_RESULTS = "analysis-results" // finished aspect reports
)

const (
	BATCH_SIZE    = 10
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
)
