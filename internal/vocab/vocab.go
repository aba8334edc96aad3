// Package vocab loads and owns the process-wide field vocabulary: the
// data-driven registry that maps insurer label synonyms to canonical
// quote fields. Adding an insurer's new label is a registry edit, never
// a code change.
package vocab

import (
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/quote-compare/internal/model"
)

var (
	mu     sync.RWMutex
	active *model.Vocabulary
)

// Init builds the process-wide vocabulary, from the given YAML file when
// path is non-empty, otherwise from the built-in default registry. Called
// once at startup; the vocabulary is immutable afterwards.
func Init(path string) error {
	var (
		v   *model.Vocabulary
		err error
	)
	if path != "" {
		v, err = LoadFromFile(path)
		if err != nil {
			return err
		}
		zap.L().Info("vocab: loaded registry",
			zap.String("path", path),
			zap.Int("fields", len(v.Fields)),
		)
	} else {
		v, err = Default()
		if err != nil {
			return err
		}
		zap.L().Debug("vocab: using built-in registry", zap.Int("fields", len(v.Fields)))
	}

	SetActive(v)
	return nil
}

// Active returns the current process-wide vocabulary, falling back to the
// built-in registry when Init was never called.
func Active() *model.Vocabulary {
	mu.RLock()
	v := active
	mu.RUnlock()
	if v != nil {
		return v
	}

	def, err := Default()
	if err != nil {
		// The built-in registry is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	SetActive(def)
	return def
}

// SetActive swaps the process-wide vocabulary. Exposed for tests and for
// explicit registry reloads.
func SetActive(v *model.Vocabulary) {
	mu.Lock()
	active = v
	mu.Unlock()
}

// vocabFile is the on-disk registry shape.
type vocabFile struct {
	Fields []model.FieldDefinition `yaml:"fields"`
}

// LoadFromFile reads a YAML field registry and returns a validated,
// indexed vocabulary.
func LoadFromFile(path string) (*model.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "vocab: read registry file")
	}

	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "vocab: unmarshal registry file")
	}
	if len(f.Fields) == 0 {
		return nil, eris.Errorf("vocab: registry %s defines no fields", path)
	}

	v, err := model.NewVocabulary(f.Fields)
	if err != nil {
		return nil, eris.Wrapf(err, "vocab: validate registry %s", path)
	}
	return v, nil
}
