package feature

import (
	"math"

	"github.com/phantomnet/phantomnet/database"
	"gonum.org/v1/gonum/stat"
)

// Columns are the profile fields fed to the anomaly model, in order
var Columns = []string{
	"num_sessions",
	"avg_duration",
	"std_duration",
	"total_commands",
	"login_success_rate",
	"protocol_error_rate",
	"unique_hassh",
}

// Matrix holds one feature vector per source address. Rows[i] belongs
// to IPs[i] and is ordered by Columns.
type Matrix struct {
	IPs     []string
	Columns []string
	Rows    [][]float64
}

// Len returns the number of vectors
func (m *Matrix) Len() int {
	return len(m.Rows)
}

// Extract projects every row of an attacker table onto Columns. Absent
// columns and unparseable cells are 0; src_ip is required.
func Extract(table *database.Table) (*Matrix, error) {
	if err := table.Require("src_ip"); err != nil {
		return nil, err
	}
	m := &Matrix{
		IPs:     make([]string, table.Len()),
		Columns: append([]string{}, Columns...),
		Rows:    make([][]float64, table.Len()),
	}
	for i := 0; i < table.Len(); i++ {
		m.IPs[i] = table.String(i, "src_ip")
		row := make([]float64, len(Columns))
		for j, col := range Columns {
			row[j] = table.Float(i, col)
		}
		m.Rows[i] = row
	}
	return m, nil
}

// Standardize returns a copy of m with every column rescaled to zero mean
// and unit population standard deviation. A column with no spread
// becomes all zeros.
func (m *Matrix) Standardize() *Matrix {
	out := &Matrix{
		IPs:     append([]string{}, m.IPs...),
		Columns: append([]string{}, m.Columns...),
		Rows:    make([][]float64, len(m.Rows)),
	}
	for i := range m.Rows {
		out.Rows[i] = make([]float64, len(m.Columns))
	}
	if len(m.Rows) == 0 {
		return out
	}

	column := make([]float64, len(m.Rows))
	for j := range m.Columns {
		for i, row := range m.Rows {
			column[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		for i := range m.Rows {
			out.Rows[i][j] = (column[i] - mean) / std
		}
	}
	return out
}
