// Package chrom holds the chromosome catalog that orders and sizes every
// per-chromosome array in a run.
package chrom

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vertgenlab/gonomics/chromInfo"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Catalog stores chromosome names and lengths in file order.
type Catalog struct {
	chroms  []chromInfo.ChromInfo // for search by index
	nameMap map[string]int        // maps chr name to index in chroms
}

// String method for Catalog enables easy writing with the fmt package.
func (c *Catalog) String() string {
	answer := new(strings.Builder)
	for i := range c.chroms {
		answer.WriteString(fmt.Sprintf("%s\t%d\n", c.chroms[i].Name, c.chroms[i].Size))
	}
	return answer.String()
}

// New builds a Catalog from chromosome records. Order fields are reassigned
// from slice position.
func New(chroms []chromInfo.ChromInfo) (*Catalog, error) {
	c := &Catalog{
		chroms:  make([]chromInfo.ChromInfo, len(chroms)),
		nameMap: make(map[string]int, len(chroms)),
	}
	for i := range chroms {
		if _, found := c.nameMap[chroms[i].Name]; found {
			return nil, errors.Errorf("duplicate chromosome %s", chroms[i].Name)
		}
		if chroms[i].Size < 0 {
			return nil, errors.Errorf("negative length for chromosome %s", chroms[i].Name)
		}
		c.chroms[i] = chromInfo.ChromInfo{Name: chroms[i].Name, Size: chroms[i].Size, Order: i}
		c.nameMap[chroms[i].Name] = i
	}
	return c, nil
}

// Read loads a chromosome sizes file (name and length in the first two
// whitespace separated columns). The name "stdin" reads standard input.
func Read(filename string) (*Catalog, error) {
	if filename != "stdin" {
		if _, err := os.Stat(filename); err != nil {
			return nil, errors.Wrapf(err, "chromosome file %s", filename)
		}
	}
	file := fileio.EasyOpen(filename)
	c, err := ReadFrom(file)
	exception.PanicOnErr(file.Close())
	if err != nil {
		return nil, errors.Wrapf(err, "chromosome file %s", filename)
	}
	return c, nil
}

// ReadFrom parses chromosome sizes from r.
func ReadFrom(r io.Reader) (*Catalog, error) {
	var chroms []chromInfo.ChromInfo
	var curr chromInfo.ChromInfo
	var col []string
	var err error
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		col = strings.Fields(line)
		if len(col) == 0 {
			continue
		}
		if len(col) < 2 {
			return nil, errors.Errorf("malformed line %d: %q", lineNum, line)
		}
		curr.Name = col[0]
		curr.Size, err = strconv.Atoi(col[1])
		if err != nil {
			return nil, errors.Wrapf(err, "malformed length on line %d", lineNum)
		}
		chroms = append(chroms, curr)
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return New(chroms)
}

func (c *Catalog) Len() int {
	return len(c.chroms)
}

// Names returns chromosome names in catalog order.
func (c *Catalog) Names() []string {
	ans := make([]string, len(c.chroms))
	for i := range c.chroms {
		ans[i] = c.chroms[i].Name
	}
	return ans
}

// Index returns the catalog position of chr.
func (c *Catalog) Index(chr string) (int, bool) {
	idx, found := c.nameMap[chr]
	return idx, found
}

// Size returns the length of chr.
func (c *Catalog) Size(chr string) (int, bool) {
	idx, found := c.nameMap[chr]
	if !found {
		return 0, false
	}
	return c.chroms[idx].Size, true
}

// Before reports whether a precedes b in catalog order. Both must be in the
// catalog.
func (c *Catalog) Before(a, b string) bool {
	return c.nameMap[a] < c.nameMap[b]
}
