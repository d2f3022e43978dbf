package memory_test

import (
	"testing"

	"github.com/ian-griptape-ai/node-development/pkg/adapters/memory"
	"github.com/ian-griptape-ai/node-development/pkg/ports"
)

func TestMemoryRegistry_Contract(t *testing.T) {
	reg := memory.NewRegistry()
	ports.RunSlotRegistryContract(t, reg)
}
