package service

import "github.com/google/uuid"

func idData(id uuid.UUID) map[string]any {
	return map[string]any{"id": id}
}
