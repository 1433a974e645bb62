package matcher

import (
	"testing"

	"github.com/mimecast/retread/internal/corpus"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func TestBestInFileFuncFastRejection(t *testing.T) {
	file := corpus.File{Path: "a.c", Contents: "int main() {}\n"}
	search := LogLineSearch{Message: "anything", Func: str("schedule")}
	if m := bestInFile(file, search); m != nil {
		t.Fatalf("expected nil (func not present), got %+v", m)
	}
}

func TestBestInFilePinnedLineEvenIfZero(t *testing.T) {
	file := corpus.File{Path: "a.c", Contents: "one\ntwo\nthree\n"}
	search := LogLineSearch{Message: "unrelated xyz", Line: num(2)}
	m := bestInFile(file, search)
	if m == nil || m.Line != 2 {
		t.Fatalf("expected pinned match at line 2, got %+v", m)
	}
}

func TestBestInFilePinnedLineOutOfRange(t *testing.T) {
	file := corpus.File{Path: "a.c", Contents: "one\ntwo\n"}
	search := LogLineSearch{Message: "x", Line: num(99)}
	if m := bestInFile(file, search); m != nil {
		t.Fatalf("expected nil for out-of-range pinned line, got %+v", m)
	}
}

func TestBestInFileTiesPreferLowestLine(t *testing.T) {
	file := corpus.File{Path: "a.c", Contents: "task done\ntask done\n"}
	search := LogLineSearch{Message: "task done"}
	m := bestInFile(file, search)
	if m == nil || m.Line != 1 {
		t.Fatalf("expected tie broken to line 1, got %+v", m)
	}
}

func TestBestInFileEmptyFile(t *testing.T) {
	file := corpus.File{Path: "a.c", Contents: ""}
	if m := bestInFile(file, LogLineSearch{Message: "x"}); m != nil {
		t.Fatalf("expected nil for empty file, got %+v", m)
	}
}

func TestBestInCorpusRestrictsByFile(t *testing.T) {
	files := []corpus.File{
		{Path: "a.c", Contents: "scheduled task 7\n"},
		{Path: "b.c", Contents: "scheduled task 7\n"},
	}
	search := LogLineSearch{Message: "scheduled task 7", File: str("b.c")}
	m := bestInCorpus(files, search, newSyncPool())
	if m == nil || m.File != "b.c" {
		t.Fatalf("expected match restricted to b.c, got %+v", m)
	}
}

func TestBestInCorpusTiesPreferEarlierFile(t *testing.T) {
	files := []corpus.File{
		{Path: "a.c", Contents: "scheduled task 7\n"},
		{Path: "b.c", Contents: "scheduled task 7\n"},
	}
	search := LogLineSearch{Message: "scheduled task 7"}
	m := bestInCorpus(files, search, newSyncPool())
	if m == nil || m.File != "a.c" {
		t.Fatalf("expected tie broken to earlier corpus entry a.c, got %+v", m)
	}
}

func TestBestInCorpusNoMatchReturnsNil(t *testing.T) {
	files := []corpus.File{{Path: "a.c", Contents: ""}}
	if m := bestInCorpus(files, LogLineSearch{Message: "x"}, newSyncPool()); m != nil {
		t.Fatalf("expected nil, got %+v", m)
	}
}
