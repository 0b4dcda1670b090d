package corpusio

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/corefkit/coref/perceptron"
)

// SaveModel writes a model file under an exclusive file lock, so
// concurrent CLI invocations (a training run and a prediction run
// sharing one model path) never observe a half-written file.
func SaveModel(path string, m *perceptron.Model) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("corpusio: lock %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	return perceptron.SaveModel(m, path)
}

// LoadModel reads a model file under a shared file lock.
func LoadModel(path string) (*perceptron.Model, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("corpusio: lock %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	return perceptron.LoadModel(path)
}
