package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"paranoia/internal/types"
)

// PoolPath returns the value pool file for a field: <root>/<name>.txt.
func PoolPath(root, field string) string {
	return filepath.Join(root, field+".txt")
}

// ReadPool reads one value per line, trimming whitespace and dropping blank
// lines.
func ReadPool(path string) (types.ValuePool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.MissingResourceError{Path: path, What: "value pool"}
		}
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}
	defer f.Close()

	var pool types.ValuePool
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line != "" {
			pool = append(pool, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pool %s: %w", path, err)
	}
	return pool, nil
}

// LoadPools reads the pool of every field, keyed by field name.
func LoadPools(root string, fields []types.FieldSpec) (map[string]types.ValuePool, error) {
	pools := make(map[string]types.ValuePool, len(fields))
	for _, f := range fields {
		pool, err := ReadPool(PoolPath(root, f.Name))
		if err != nil {
			return nil, fmt.Errorf("data for %s: %w", f.Name, err)
		}
		pools[f.Name] = pool
	}
	return pools, nil
}
