package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by this package: the
// go-sqlite3 driver with the store's SQL functions attached to every
// connection.
const DriverName = "sqlite3_kgraph"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("regexp", regexpFunc, true); err != nil {
				return fmt.Errorf("register regexp: %w", err)
			}
			if err := conn.RegisterFunc("similarity", similarityFunc, true); err != nil {
				return fmt.Errorf("register similarity: %w", err)
			}
			return nil
		},
	})
}

// patternCache holds compiled REGEXP patterns keyed by source.
// Patterns come from the query compiler, so the set stays small.
var patternCache sync.Map

// regexpFunc implements "value REGEXP pattern". SQLite invokes the regexp
// function with (pattern, value). NULL values never match.
func regexpFunc(pattern string, value any) (bool, error) {
	s, ok := textArg(value)
	if !ok {
		return false, nil
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("regexp %q: %w", pattern, err)
	}
	patternCache.Store(pattern, re)
	return re, nil
}

// similarityFunc implements similarity(a, b). NULL inputs score 0.
func similarityFunc(a, b any) float64 {
	sa, ok := textArg(a)
	if !ok {
		return 0
	}
	sb, ok := textArg(b)
	if !ok {
		return 0
	}
	return Similarity(sa, sb)
}

// textArg converts a SQLite function argument to text.
func textArg(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return fmt.Sprint(val), true
	}
}
