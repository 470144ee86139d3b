package assets

// Names of the bundled assets.
const (
	ScriptInject   = "inject"
	ScriptState    = "state"
	ScriptFallback = "fallback"
	StylePreview   = "preview"
)

// AssetLoader defines the contract for loading scripts and styles.
type AssetLoader interface {
	// LoadScript loads a browser script by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)

	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)
}

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadScript loads a script by name using the default embedded loader.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}

// LoadStyle loads a CSS file by name using the default embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// MustLoadScript loads a bundled script and panics if it is missing.
// Only for names declared in this package, which are embedded at compile time.
func MustLoadScript(name string) string {
	s, err := LoadScript(name)
	if err != nil {
		panic(err)
	}
	return s
}
