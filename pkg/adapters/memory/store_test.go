package memory_test

import (
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/ports"
)

func TestMemoryBackend_Contract(t *testing.T) {
	ports.RunBackendContract(t, memory.NewBackend())
}

func TestMemoryBackend_Seed(t *testing.T) {
	ports.RunSeederContract(t, memory.NewBackend())
}
