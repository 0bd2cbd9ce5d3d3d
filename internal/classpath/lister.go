package classpath

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"syscall"
)

// Order controls how entries within one directory are sequenced.
type Order string

const (
	// OrderLexical sorts entries by name. Reproducible across platforms.
	OrderLexical Order = "lexical"
	// OrderFilesystem keeps whatever order the OS enumeration returns.
	OrderFilesystem Order = "filesystem"
)

// ValidOrders lists the accepted Order names.
var ValidOrders = []Order{OrderLexical, OrderFilesystem}

// ParseOrder converts a config or flag value into an Order.
// The empty string selects OrderLexical.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderLexical:
		return OrderLexical, nil
	case OrderFilesystem:
		return OrderFilesystem, nil
	}
	return "", fmt.Errorf("invalid order: %s (valid: %v)", s, ValidOrders)
}

// listDir returns the immediate entries of dir. The handle is closed before
// returning.
func listDir(dir string, order Order) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, newDirError(dir, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, newDirError(dir, err)
	}
	if !info.IsDir() {
		return nil, &DirError{Dir: dir, Kind: KindNotDirectory, Err: syscall.ENOTDIR}
	}

	// File.ReadDir does not sort, unlike os.ReadDir.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, newDirError(dir, err)
	}

	if order == OrderLexical {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})
	}
	return entries, nil
}
