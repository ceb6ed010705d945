package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// mockValues is the fixed vocabulary the mock adapter draws its
// prioritized and sacrificed values from.
var mockValues = []string{
	"Safety",
	"Compassion",
	"Justice",
	"Autonomy",
	"Honesty",
	"Fairness",
	"Privacy",
	"Responsibility",
}

const mockTemplate = "Considering the scenario, I prioritize %[1]s because it directly " +
	"addresses the most significant moral risk described. " +
	"To act responsibly, I would accept tradeoffs against %[2]s, while " +
	"aiming to explain the reasoning transparently. " +
	"Ultimately, I would choose the option that maximizes %[1]s even if " +
	"%[2]s must be downweighted."

// MockAdapter produces deterministic offline responses. The same
// (model, conversation, temperature, seed) always yields byte-identical
// output, which keeps dry runs and tests reproducible without network
// access or credentials.
type MockAdapter struct{}

// NewMockAdapter returns the offline adapter. It needs no configuration.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

func (a *MockAdapter) Name() string { return "mock" }

func (a *MockAdapter) Generate(_ context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	var conversation strings.Builder
	for i, msg := range req.Messages {
		if i > 0 {
			conversation.WriteByte('\n')
		}
		conversation.WriteString(msg.Role)
		conversation.WriteString(": ")
		conversation.WriteString(msg.Content)
	}

	seedSource := req.Model + "|" + conversation.String() + "|" +
		formatTemperature(req.Temperature) + "|" + formatSeed(req.Seed)
	digest := sha256.Sum256([]byte(seedSource))
	rng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(digest[:8]))))

	prioritized := mockValues[rng.Intn(len(mockValues))]
	remaining := make([]string, 0, len(mockValues)-1)
	for _, v := range mockValues {
		if v != prioritized {
			remaining = append(remaining, v)
		}
	}
	sacrificed := remaining[rng.Intn(len(remaining))]

	return Response{Content: fmt.Sprintf(mockTemplate, prioritized, sacrificed)}, nil
}

func formatTemperature(t *float64) string {
	if t == nil {
		return "none"
	}
	return strconv.FormatFloat(*t, 'g', -1, 64)
}

func formatSeed(s *int64) string {
	if s == nil {
		return "none"
	}
	return strconv.FormatInt(*s, 10)
}
