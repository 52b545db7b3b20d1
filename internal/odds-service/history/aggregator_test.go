package history

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSamples_EmptyLogYieldsSyntheticPrior(t *testing.T) {
	a := NewAggregator(zap.NewNop())
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := a.Samples("m1", created, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 synthetic sample, got %d", len(got))
	}
	if got[0].Probability != 50.0 {
		t.Errorf("expected flat prior 50.0, got %v", got[0].Probability)
	}
	if got[0].Timestamp != created.UnixMilli() {
		t.Errorf("expected timestamp at market creation, got %d", got[0].Timestamp)
	}
}

func TestSamples_OrderedValues(t *testing.T) {
	a := NewAggregator(zap.NewNop())
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{YesStake: 0, NoStake: 0, Seq: 1, CreatedAt: t0},
		{YesStake: 50, NoStake: 0, Seq: 2, CreatedAt: t0.Add(time.Minute)},
		{YesStake: 50, NoStake: 50, Seq: 3, CreatedAt: t0.Add(2 * time.Minute)},
	}

	got := a.Samples("m1", t0, rows)
	want := []float64{50.0, 100.0, 50.0}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Probability != want[i] {
			t.Errorf("sample %d: expected %v, got %v", i, want[i], got[i].Probability)
		}
		if i > 0 && got[i].Timestamp < got[i-1].Timestamp {
			t.Errorf("sample %d: timestamp regressed", i)
		}
	}
}

func TestSamples_DropsCorruptRows(t *testing.T) {
	a := NewAggregator(zap.NewNop())
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{YesStake: 10, NoStake: 30, Seq: 1, CreatedAt: t0},
		{YesStake: -5, NoStake: 30, Seq: 2, CreatedAt: t0.Add(time.Minute)}, // stake negativo
		{YesStake: 20, NoStake: 20, Seq: 3, CreatedAt: t0.Add(2 * time.Minute)},
	}

	got := a.Samples("m1", t0, rows)
	if len(got) != 2 {
		t.Fatalf("expected corrupt row dropped, got %d samples", len(got))
	}
	if got[0].Probability != 25.0 || got[1].Probability != 50.0 {
		t.Errorf("unexpected values: %v, %v", got[0].Probability, got[1].Probability)
	}
}

func TestSamples_DropsTimestampRegression(t *testing.T) {
	a := NewAggregator(zap.NewNop())
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{YesStake: 10, NoStake: 0, Seq: 1, CreatedAt: t0.Add(time.Hour)},
		{YesStake: 10, NoStake: 10, Seq: 2, CreatedAt: t0}, // relógio voltou
		{YesStake: 10, NoStake: 30, Seq: 3, CreatedAt: t0.Add(2 * time.Hour)},
	}

	got := a.Samples("m1", t0, rows)
	if len(got) != 2 {
		t.Fatalf("expected regressing row dropped, got %d samples", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp < got[i-1].Timestamp {
			t.Errorf("emission order not non-decreasing")
		}
	}
}

func TestSamples_EqualTimestampsKept(t *testing.T) {
	a := NewAggregator(zap.NewNop())
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// mesma hora, desempate por seq já resolvido na ordenação do SQL
	rows := []Row{
		{YesStake: 10, NoStake: 0, Seq: 1, CreatedAt: t0},
		{YesStake: 10, NoStake: 10, Seq: 2, CreatedAt: t0},
	}

	got := a.Samples("m1", t0, rows)
	if len(got) != 2 {
		t.Fatalf("equal timestamps must both be emitted, got %d", len(got))
	}
}
