package feature

import (
	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
)

// Header returns the table header of the matrix: the feature columns
// followed by src_ip
func (m *Matrix) Header() []string {
	return append(append([]string{}, m.Columns...), "src_ip")
}

// TableRows renders the matrix in Header order
func (m *Matrix) TableRows() [][]string {
	rows := make([][]string, 0, len(m.Rows))
	for i, vec := range m.Rows {
		row := make([]string, 0, len(vec)+1)
		for _, v := range vec {
			row = append(row, util.FormatFloat(v))
		}
		rows = append(rows, append(row, m.IPs[i]))
	}
	return rows
}

// Write replaces the feature table
func Write(res *resources.Resources, m *Matrix) error {
	return res.DB.Write(res.Config.T.Analysis.FeatureTable, m.Header(), m.TableRows())
}

// Read loads the feature table. Every numeric column present is a
// feature, kept in table order.
func Read(res *resources.Resources) (*Matrix, error) {
	table, err := res.DB.Read(res.Config.T.Analysis.FeatureTable)
	if err != nil {
		return nil, err
	}
	return FromTable(table)
}

// FromTable reads a previously written feature table
func FromTable(table *database.Table) (*Matrix, error) {
	if err := table.Require("src_ip"); err != nil {
		return nil, err
	}
	m := &Matrix{
		IPs:  make([]string, table.Len()),
		Rows: make([][]float64, table.Len()),
	}
	for _, col := range table.Header {
		if col != "src_ip" {
			m.Columns = append(m.Columns, col)
		}
	}
	for i := 0; i < table.Len(); i++ {
		m.IPs[i] = table.String(i, "src_ip")
		row := make([]float64, len(m.Columns))
		for j, col := range m.Columns {
			row[j] = table.Float(i, col)
		}
		m.Rows[i] = row
	}
	return m, nil
}
