package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/store"
	"go.uber.org/zap"
)

func testImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "import.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, zap.NewNop()), st
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportFile_CreatesOrdersAndEntities(t *testing.T) {
	imp, st := testImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "date,client,product,quantity,price\n"+
		"2025-03-01,Acme Corp,Widget A,5,10.00\n"+
		"2025-03-06,Acme Corp,Widget B,3,20.00\n")

	n, err := imp.ImportFile(ctx, path, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	client, err := st.UpsertClientByName(ctx, "Acme Corp", 1)
	require.NoError(t, err)

	orders, err := st.OrdersByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "50", orders[0].Total.String())
	assert.Equal(t, "COMPLETED", orders[0].Status)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, "Widget A", orders[0].Lines[0].ProductName)
	assert.Equal(t, 5, orders[0].Lines[0].Quantity)
	assert.Equal(t, "2025-03-01", orders[0].CreatedAt.Format("2006-01-02"))
}

func TestImportFile_SkipsMalformedRows(t *testing.T) {
	imp, st := testImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "date,client,product,quantity,price\n"+
		"not-a-date,Acme,Widget A,1,10.00\n"+
		"2025-03-01,,Widget A,1,10.00\n"+
		"2025-03-01,Acme,Widget A,0,10.00\n"+
		"2025-03-01,Acme,Widget A,1,not-money\n"+
		"2025-03-01,Acme,Widget A\n"+
		"2025-03-02,Acme,Widget A,2,10.00\n")

	n, err := imp.ImportFile(ctx, path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	client, err := st.UpsertClientByName(ctx, "Acme", 1)
	require.NoError(t, err)
	orders, err := st.OrdersByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestImportFile_ReusesExistingEntities(t *testing.T) {
	imp, st := testImporter(t)
	ctx := context.Background()

	first := writeCSV(t, "date,client,product,quantity,price\n2025-01-01,Acme,Widget A,1,10.00\n")
	n, err := imp.ImportFile(ctx, first, 1)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	second := writeCSV(t, "date,client,product,quantity,price\n2025-02-01,Acme,Widget A,2,10.00\n")
	n, err = imp.ImportFile(ctx, second, 1)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	client, err := st.UpsertClientByName(ctx, "Acme", 1)
	require.NoError(t, err)
	orders, err := st.OrdersByClient(ctx, client.ID)
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, orders[0].Lines[0].ProductID, orders[1].Lines[0].ProductID)
}

func TestImportFile_MissingFile(t *testing.T) {
	imp, _ := testImporter(t)

	_, err := imp.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), 1)
	assert.Error(t, err)
}

func TestImportFile_HeaderOnly(t *testing.T) {
	imp, _ := testImporter(t)

	path := writeCSV(t, "date,client,product,quantity,price\n")
	n, err := imp.ImportFile(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}
