package sync

import "storesync/internal/domain/conflict"

type detectInput struct {
	Body conflict.DetectBatchRequest
}

type detectOutput struct {
	Body conflict.DetectBatchResponse
}
