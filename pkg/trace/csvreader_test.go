package trace

import (
	"context"
	"os"
	"testing"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "trace-*.csv")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.WriteString(contents); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return f.Name()
}

func TestCSVFileReaderReadsRecordsInOrder(t *testing.T) {
	path := writeTempCSV(t, "1,10,100\n2,11,200\n3,10,100\n")
	r, err := OpenCSVFile(path)
	if err != nil {
		t.Fatalf("OpenCSVFile: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	want := []Request{
		{VTime: 1, ObjID: 10, ObjSize: 100},
		{VTime: 2, ObjID: 11, ObjSize: 200},
		{VTime: 3, ObjID: 10, ObjSize: 100},
	}
	for i, w := range want {
		got, ok, err := r.ReadNext(ctx)
		if err != nil || !ok {
			t.Fatalf("record %d: ReadNext() = %v, %v, %v", i, got, ok, err)
		}
		if got != w {
			t.Fatalf("record %d = %+v, want %+v", i, got, w)
		}
	}
	if _, ok, err := r.ReadNext(ctx); ok || err != nil {
		t.Fatalf("expected EOF, got ok=%v err=%v", ok, err)
	}
}

func TestCSVFileReaderResetRewinds(t *testing.T) {
	path := writeTempCSV(t, "1,1,10\n2,2,20\n")
	r, err := OpenCSVFile(path)
	if err != nil {
		t.Fatalf("OpenCSVFile: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	r.ReadNext(ctx)
	r.ReadNext(ctx)
	if err := r.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, ok, err := r.ReadNext(ctx)
	if err != nil || !ok {
		t.Fatalf("ReadNext after reset: %v, %v, %v", got, ok, err)
	}
	if got.VTime != 1 {
		t.Fatalf("first record after reset has VTime %d, want 1", got.VTime)
	}
}

func TestCSVFileReaderComputeWorkingSetThenResets(t *testing.T) {
	path := writeTempCSV(t, "1,1,10\n2,2,20\n3,1,10\n")
	r, err := OpenCSVFile(path)
	if err != nil {
		t.Fatalf("OpenCSVFile: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	ws, err := r.ComputeWorkingSet(ctx)
	if err != nil {
		t.Fatalf("ComputeWorkingSet: %v", err)
	}
	if ws.NObjUnique != 2 || ws.NBytesUnique != 30 {
		t.Fatalf("ws = %+v, want {NObjUnique:2 NBytesUnique:30}", ws)
	}

	got, ok, err := r.ReadNext(ctx)
	if err != nil || !ok || got.VTime != 1 {
		t.Fatalf("ReadNext after ComputeWorkingSet = %+v, %v, %v; want first record", got, ok, err)
	}
}

func TestCSVFileReaderRespectsInstalledSampler(t *testing.T) {
	path := writeTempCSV(t, "1,1,10\n2,2,20\n3,3,30\n")
	r, err := OpenCSVFile(path)
	if err != nil {
		t.Fatalf("OpenCSVFile: %v", err)
	}
	defer r.Close()

	r.InstallSpatialSampler(rejectAllButOneSampler{keep: 2})
	ctx := context.Background()

	got, ok, err := r.ReadNext(ctx)
	if err != nil || !ok || got.ObjID != 2 {
		t.Fatalf("ReadNext = %+v, %v, %v; want only objID 2 admitted", got, ok, err)
	}
	if _, ok, _ := r.ReadNext(ctx); ok {
		t.Fatal("expected no further admitted records")
	}
}

func TestOpenRejectsUnknownTraceKind(t *testing.T) {
	if _, err := Open("/dev/null", "parquet", nil); err == nil {
		t.Fatal("expected error for unsupported trace_kind")
	}
}

type rejectAllButOneSampler struct{ keep uint64 }

func (s rejectAllButOneSampler) Sample(objID uint64) bool { return objID == s.keep }
func (s rejectAllButOneSampler) Rate() float64            { return 0 }
