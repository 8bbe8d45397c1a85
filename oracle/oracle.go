// Package oracle wraps the external 4ti2 zsolve tool, which computes a
// Hilbert basis of the non-negative integer kernel of a matrix. It
// shells out to the tool (spec §4.6), writing 4ti2's four input files,
// invoking the binary, and parsing its two output files before cleaning
// up every temp file it created.
package oracle

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/TimothyStiles/stabletbn/staberr"
)

// BasisRequest describes the cone-membership problem to hand to 4ti2:
// find the Hilbert basis of {x >= 0 : matrix * x Rel rhs}, one Rel/rhs
// pair per row, with every basis coordinate constrained to be >= 0 (the
// sign vector 4ti2 expects for this family of problems).
type BasisRequest struct {
	// Matrix is row-major, Rows x Cols.
	Matrix [][]int64
	// Rel is one relation per row: "<", ">", or "=".
	Rel []string
	// Rhs is one bound per row, aligned with Rel.
	Rhs []int64
}

// Basis is the Hilbert basis 4ti2 returns: the homogeneous rays
// (zhom) followed by the inhomogeneous offsets (zinhom), each a
// length-Cols vector, as columns the caller reassembles into
// polymer-basis vectors.
type Basis struct {
	Vectors [][]int64
	Cols    int
}

// Run invokes 4ti2-zsolve on req and parses its result. The system temp
// directory (os.TempDir) holds the transient .mat/.rel/.sign/.rhs/.zhom/.zinhom
// files; every one of them is removed before Run returns, success or
// failure, mirroring the original's try/finally cleanup.
func Run(ctx context.Context, req BasisRequest) (Basis, error) {
	if _, err := exec.LookPath("4ti2-zsolve"); err != nil {
		return Basis{}, fmt.Errorf("%w: 4ti2-zsolve not found on PATH: %v", staberr.ErrOracleUnavailable, err)
	}
	if len(req.Matrix) == 0 {
		return Basis{}, fmt.Errorf("%w: cannot compute a hilbert basis of an empty matrix", staberr.ErrInvalidInput)
	}
	cols := len(req.Matrix[0])

	prefix := tempPrefix()
	matPath := prefix + ".mat"
	relPath := prefix + ".rel"
	signPath := prefix + ".sign"
	rhsPath := prefix + ".rhs"
	zhomPath := prefix + ".zhom"
	zinhomPath := prefix + ".zinhom"

	defer func() {
		for _, p := range []string{matPath, relPath, signPath, rhsPath, zhomPath, zinhomPath} {
			os.Remove(p)
		}
	}()

	if err := writeMatrixFile(matPath, req.Matrix); err != nil {
		return Basis{}, err
	}
	if err := writeRowFile(relPath, req.Rel); err != nil {
		return Basis{}, err
	}
	if err := writeRepeatedRowFile(signPath, cols, "1"); err != nil {
		return Basis{}, err
	}
	if err := writeIntRowFile(rhsPath, req.Rhs); err != nil {
		return Basis{}, err
	}

	cmd := exec.CommandContext(ctx, "4ti2-zsolve", prefix, "-q")
	if err := cmd.Run(); err != nil {
		return Basis{}, fmt.Errorf("%w: 4ti2-zsolve failed: %v", staberr.ErrOracleUnavailable, err)
	}

	homVectors, err := readBasisFile(zhomPath)
	if err != nil {
		return Basis{}, err
	}
	inhomVectors, err := readBasisFile(zinhomPath)
	if err != nil {
		return Basis{}, err
	}

	vectors := make([][]int64, 0, len(homVectors)+len(inhomVectors))
	vectors = append(vectors, homVectors...)
	for _, v := range inhomVectors {
		if !allZero(v) {
			vectors = append(vectors, v)
		}
	}
	if len(vectors) == 0 {
		return Basis{}, fmt.Errorf("%w: 4ti2-zsolve produced an empty hilbert basis", staberr.ErrOracleUnavailable)
	}
	return Basis{Vectors: vectors, Cols: cols}, nil
}

func tempPrefix() string {
	return fmt.Sprintf("%s/stabletbn_4ti2_%d", os.TempDir(), rand.Int63())
}

func writeMatrixFile(path string, matrix [][]int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d %d\n", len(matrix), len(matrix[0]))
	for _, row := range matrix {
		for _, v := range row {
			fmt.Fprintf(w, "%d ", v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func writeRowFile(path string, tokens []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "1 %d\n", len(tokens))
	fmt.Fprintln(w, strings.Join(tokens, " "))
	return w.Flush()
}

func writeIntRowFile(path string, values []int64) error {
	tokens := make([]string, len(values))
	for i, v := range values {
		tokens[i] = strconv.FormatInt(v, 10)
	}
	return writeRowFile(path, tokens)
}

func writeRepeatedRowFile(path string, n int, token string) error {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = token
	}
	return writeRowFile(path, tokens)
}

// readBasisFile parses a 4ti2 .zhom/.zinhom file: a "<rows> <cols>"
// header followed by rows*cols whitespace-separated integers.
func readBasisFile(path string) ([][]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read 4ti2 output %s: %v", staberr.ErrOracleUnavailable, path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: 4ti2 output %s is empty", staberr.ErrOracleUnavailable, path)
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, fmt.Errorf("%w: malformed 4ti2 header in %s", staberr.ErrOracleUnavailable, path)
	}
	rows, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed row count in %s: %v", staberr.ErrOracleUnavailable, path, err)
	}
	cols, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed column count in %s: %v", staberr.ErrOracleUnavailable, path, err)
	}

	var flat []int64
	for scanner.Scan() {
		for _, tok := range strings.Fields(scanner.Text()) {
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed entry in %s: %v", staberr.ErrOracleUnavailable, path, err)
			}
			flat = append(flat, v)
		}
	}
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("%w: 4ti2 output %s declared %dx%d but had %d entries", staberr.ErrOracleUnavailable, path, rows, cols, len(flat))
	}

	out := make([][]int64, rows)
	for i := 0; i < rows; i++ {
		out[i] = flat[i*cols : (i+1)*cols]
	}
	return out, nil
}

func allZero(v []int64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
