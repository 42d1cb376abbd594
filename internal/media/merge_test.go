package media

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id string, kind Kind, created, modified int64) Record {
	c, m := created*1000, modified*1000
	return Record{ID: id, MediumType: kind, CreationDate: &c, ModifiedDate: &m}
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func intPtr(n int) *int {
	return &n
}

func TestMergeRecords_ImagesAndVideos(t *testing.T) {
	images := []Record{rec("A", KindImage, 10, 10), rec("B", KindImage, 20, 20)}
	videos := []Record{rec("C", KindVideo, 15, 15)}

	assert.Equal(t, []string{"A", "C", "B"}, ids(MergeRecords(false, images, videos)))
	assert.Equal(t, []string{"B", "C", "A"}, ids(MergeRecords(true, images, videos)))
}

func TestMergeRecords_ModifiedDateBreaksTies(t *testing.T) {
	images := []Record{rec("A", KindImage, 10, 12)}
	videos := []Record{rec("B", KindVideo, 10, 11)}

	assert.Equal(t, []string{"B", "A"}, ids(MergeRecords(false, images, videos)))
}

func TestMergeRecords_TieBlockReversedWhole(t *testing.T) {
	images := []Record{rec("A", KindImage, 5, 5), rec("T1", KindImage, 10, 10), rec("T2", KindImage, 10, 10)}
	videos := []Record{rec("T3", KindVideo, 10, 10), rec("Z", KindVideo, 20, 20)}

	asc := MergeRecords(false, images, videos)
	assert.Equal(t, []string{"A", "T1", "T2", "T3", "Z"}, ids(asc))

	desc := MergeRecords(true, images, videos)
	assert.Equal(t, []string{"Z", "T3", "T2", "T1", "A"}, ids(desc))
}

func TestMergeRecords_NullsFirst(t *testing.T) {
	noDate := Record{ID: "N", MediumType: KindImage}
	images := []Record{rec("A", KindImage, 1, 1), noDate}

	assert.Equal(t, []string{"N", "A"}, ids(MergeRecords(false, images)))
	assert.Equal(t, []string{"A", "N"}, ids(MergeRecords(true, images)))
}

func TestPaginate(t *testing.T) {
	items := []Record{
		rec("1", KindImage, 1, 1), rec("2", KindImage, 2, 2), rec("3", KindImage, 3, 3),
		rec("4", KindImage, 4, 4), rec("5", KindImage, 5, 5),
	}

	tests := []struct {
		name  string
		skip  *int
		take  *int
		start int
		want  []string
	}{
		{"no paging", nil, nil, 0, []string{"1", "2", "3", "4", "5"}},
		{"take only", nil, intPtr(2), 0, []string{"1", "2"}},
		{"skip only", intPtr(3), nil, 3, []string{"4", "5"}},
		{"window", intPtr(1), intPtr(3), 1, []string{"2", "3", "4"}},
		{"clipped", intPtr(4), intPtr(10), 4, []string{"5"}},
		{"start at total", intPtr(5), intPtr(2), 5, []string{}},
		{"start past total", intPtr(50), nil, 50, []string{}},
		{"zero take", intPtr(0), intPtr(0), 0, []string{}},
		{"negative skip", intPtr(-3), intPtr(1), 0, []string{"1"}},
		{"negative take", intPtr(1), intPtr(-2), 1, []string{}},
		{"huge take", intPtr(1), intPtr(math.MaxInt), 1, []string{"2", "3", "4", "5"}},
		{"huge skip", intPtr(math.MaxInt), intPtr(math.MaxInt), math.MaxInt, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(items, tt.skip, tt.take)
			assert.Equal(t, tt.start, page.Start)
			require.NotNil(t, page.Items)
			assert.Equal(t, tt.want, ids(page.Items))
		})
	}
}

func TestPaginate_PagesCoverEverythingOnce(t *testing.T) {
	var items []Record
	for i := 0; i < 23; i++ {
		items = append(items, rec(string(rune('a'+i)), KindImage, int64(i), int64(i)))
	}

	for _, take := range []int{1, 4, 5, 23, 30} {
		var seen []string
		for skip := 0; skip < len(items); skip += take {
			page := Paginate(items, intPtr(skip), intPtr(take))
			assert.LessOrEqual(t, len(page.Items), take)
			seen = append(seen, ids(page.Items)...)
		}
		assert.Equal(t, ids(items), seen, "take %d", take)
	}
}
