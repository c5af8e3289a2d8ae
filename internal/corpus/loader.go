package corpus

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/pathpilot/backend/internal/storage"
)

// Extensions lists the file types the loader understands
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Source lists and reads category files
type Source interface {
	List() ([]string, error)
	Read(name string) ([]byte, error)
}

// Loader turns the files of a Source into a Corpus
type Loader struct {
	source   Source
	logger   *logrus.Entry
	schema   *gojsonschema.Schema
	validate *validator.Validate
}

func NewLoader(source Source, logger *logrus.Entry) (*Loader, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	validate, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &Loader{
		source:   source,
		logger:   logger.WithField("component", "corpus"),
		schema:   schema,
		validate: validate,
	}, nil
}

// LoadDir loads every category file in dir
func LoadDir(dir string, logger *logrus.Entry) (Corpus, error) {
	fs, err := storage.NewFileStorage(dir, Extensions...)
	if err != nil {
		return nil, &LoadError{Path: dir, Op: "open", Err: err}
	}
	loader, err := NewLoader(fs, logger)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

// Load reads files in source order and flattens their careers. The first
// bad file fails the whole load.
func (l *Loader) Load() (Corpus, error) {
	names, err := l.source.List()
	if err != nil {
		return nil, &LoadError{Path: l.root(), Op: "list", Err: err}
	}

	corpus := Corpus{}
	for _, name := range names {
		data, err := l.source.Read(name)
		if err != nil {
			return nil, &LoadError{Path: l.path(name), Op: "read", Err: err}
		}

		file, err := l.Parse(name, data)
		if err != nil {
			return nil, err
		}

		category := file.CategoryName()
		for _, career := range file.Careers {
			career.Category = category
			career.CombinedText = career.BuildText()
			corpus = append(corpus, career)
		}

		l.logger.WithFields(logrus.Fields{
			"file":     name,
			"category": category,
			"records":  len(file.Careers),
		}).Debug("Loaded category file")
	}

	l.logger.WithFields(logrus.Fields{
		"files":   len(names),
		"records": len(corpus),
	}).Info("Career corpus loaded")

	return corpus, nil
}

// Parse decodes and validates one category file. The format is picked from
// the file extension.
func (l *Loader) Parse(name string, data []byte) (*File, error) {
	doc, err := decode(name, data)
	if err != nil {
		return nil, &LoadError{Path: name, Op: "parse", Err: err}
	}

	if err := checkDocument(l.schema, name, doc); err != nil {
		return nil, err
	}

	// The document is known to be well formed; re-encode it as JSON so all
	// formats share one struct mapping.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &LoadError{Path: name, Op: "parse", Err: err}
	}
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, &LoadError{Path: name, Op: "parse", Err: err}
	}

	if err := checkStruct(l.validate, name, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (l *Loader) root() string {
	if d, ok := l.source.(interface{ Dir() string }); ok {
		return d.Dir()
	}
	return "source"
}

func (l *Loader) path(name string) string {
	if p, ok := l.source.(interface{ Path(string) string }); ok {
		return p.Path(name)
	}
	return name
}

func decode(name string, data []byte) (map[string]any, error) {
	var doc map[string]any
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
