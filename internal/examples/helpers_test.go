package examples

import (
	"os"
	"path/filepath"
	"testing"

	"bookkit/internal/config"

	"github.com/stretchr/testify/require"
)

// writeExample creates rel under root with body, creating parent directories.
func writeExample(t *testing.T, root, rel, body string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func testConfig(root string) config.ValidateConfig {
	cfg := config.DefaultValidateConfig()
	cfg.ExampleDir = root
	return cfg
}

const mainBody = `public class %s {
  public static void main(String[] args) {
    System.out.println("hi");
  }
}
`
