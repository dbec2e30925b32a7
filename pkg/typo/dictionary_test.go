package typo_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/leapstack-labs/minilang/pkg/typo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	d := typo.NewDefault()

	entries := d.Entries()
	require.Len(t, entries, 10)
	assert.Equal(t, typo.Entry{Typo: "brak", Correction: "break"}, entries[0])
	assert.Equal(t, typo.Entry{Typo: "whlie", Correction: "while"}, entries[len(entries)-1])

	got, ok := d.Lookup("pritn")
	assert.True(t, ok)
	assert.Equal(t, "print", got)

	_, ok = d.Lookup("print")
	assert.False(t, ok)
}

func TestDefaultsIsACopy(t *testing.T) {
	m := typo.Defaults()
	m["pritn"] = "changed"
	got, _ := typo.NewDefault().Lookup("pritn")
	assert.Equal(t, "print", got)
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name        string
		misspelling string
		canonical   string
		want        bool
	}{
		{"valid", "functoin", "function", true},
		{"overwrite", "pritn", "printf", true},
		{"empty misspelling", "", "print", false},
		{"empty canonical", "prnt", "", false},
		{"not identifier shaped", "pr nt", "print", false},
		{"canonical not identifier shaped", "prnt", "print(", false},
		{"leading digit", "1print", "print", false},
		{"direct cycle", "print", "pritn", false},
		{"same entry again", "whlie", "while", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := typo.NewDefault()
			before := d.Snapshot()
			assert.Equal(t, tt.want, d.Add(tt.misspelling, tt.canonical))
			if !tt.want {
				assert.Same(t, before, d.Snapshot(), "rejected add must not publish a snapshot")
				return
			}
			got, ok := d.Lookup(tt.misspelling)
			assert.True(t, ok)
			assert.Equal(t, tt.canonical, got)
		})
	}
}

func TestAddIdenticalIsNoOp(t *testing.T) {
	d := typo.NewDefault()
	before := d.Snapshot()

	assert.True(t, d.Add("print", "print"))
	assert.True(t, d.Add("pritn", "pritn"))
	assert.Same(t, before, d.Snapshot())

	got, ok := d.Lookup("pritn")
	assert.True(t, ok)
	assert.Equal(t, "print", got)
	_, ok = d.Lookup("print")
	assert.False(t, ok)
}

func TestAddRejectsLongCycle(t *testing.T) {
	d := typo.New()
	require.True(t, d.Add("a", "b"))
	require.True(t, d.Add("b", "c"))
	assert.False(t, d.Add("c", "a"))
	assert.True(t, d.Add("c", "d"))

	got, ok := d.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "d", got, "lookups follow chained entries")
}

func TestSeed(t *testing.T) {
	d := typo.New()
	require.NoError(t, d.Seed(map[string]string{"prnt": "print", "wile": "while"}))
	assert.Equal(t, 2, d.Snapshot().Len())

	err := d.Seed(map[string]string{"ok": "fine", "bad word": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad word"`)
}

func TestSnapshotIsolation(t *testing.T) {
	d := typo.NewDefault()
	snap := d.Snapshot()
	require.True(t, d.Add("functoin", "function"))

	_, ok := snap.Lookup("functoin")
	assert.False(t, ok, "old snapshot must not see later adds")
	_, ok = d.Snapshot().Lookup("functoin")
	assert.True(t, ok)
}

func TestConcurrentAddAndRewrite(t *testing.T) {
	d := typo.NewDefault()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Add(fmt.Sprintf("typo_%d_%d", i, j), "print")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				out, _ := d.RewriteText(`pritn("x"); whlie`)
				assert.Equal(t, `print("x"); while`, out)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10+8*50, d.Snapshot().Len())
}
