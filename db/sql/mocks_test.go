package sql

import "database/sql/driver"

type (
	mockDriver struct {
		openFunc func(name string) (driver.Conn, error)
	}

	mockConn struct {
		prepareFunc func(query string) (driver.Stmt, error)
		beginFunc   func() (driver.Tx, error)
	}

	mockStmt struct {
		numInputFunc func() int
		execFunc     func(args []driver.Value) (driver.Result, error)
		queryFunc    func(args []driver.Value) (driver.Rows, error)
	}

	mockTx struct {
		commitFunc   func() error
		rollbackFunc func() error
	}

	mockResult struct {
		rowsAffectedFunc func() (int64, error)
	}

	mockRows struct {
		columns  []string
		nextFunc func(dest []driver.Value) error
	}
)

func (m *mockDriver) Open(name string) (driver.Conn, error) {
	return m.openFunc(name)
}

func (m mockConn) Prepare(query string) (driver.Stmt, error) {
	return m.prepareFunc(query)
}

func (mockConn) Close() error {
	return nil
}

func (m mockConn) Begin() (driver.Tx, error) {
	return m.beginFunc()
}

func (mockStmt) Close() error {
	return nil
}

func (m mockStmt) NumInput() int {
	return m.numInputFunc()
}

func (m mockStmt) Exec(args []driver.Value) (driver.Result, error) {
	return m.execFunc(args)
}

func (m mockStmt) Query(args []driver.Value) (driver.Rows, error) {
	return m.queryFunc(args)
}

func (m mockTx) Commit() error {
	return m.commitFunc()
}

func (m mockTx) Rollback() error {
	return m.rollbackFunc()
}

func (mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	return m.rowsAffectedFunc()
}

func (m mockRows) Columns() []string {
	return m.columns
}

func (mockRows) Close() error {
	return nil
}

func (m mockRows) Next(dest []driver.Value) error {
	return m.nextFunc(dest)
}
