package utils

import (
	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

func GenerateInteractionID() string {
	return uuid.NewString()
}

func GenerateSessionID() string {
	return uuid.NewString()
}
