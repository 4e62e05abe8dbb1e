package tile

import "testing"

func TestNew(t *testing.T) {
	newTests := []struct {
		homeIndex Index
		dimension int
		wantOk    bool
		want      Tile
	}{
		{ // negative
			homeIndex: -1,
			dimension: 3,
		},
		{ // too large
			homeIndex: 9,
			dimension: 3,
		},
		{
			homeIndex: 0,
			dimension: 3,
			wantOk:    true,
			want: Tile{
				HomeIndex: 0,
			},
		},
		{
			homeIndex: 7,
			dimension: 3,
			wantOk:    true,
			want: Tile{
				HomeIndex: 7,
			},
		},
		{ // last
			homeIndex: 8,
			dimension: 3,
			wantOk:    true,
			want: Tile{
				HomeIndex: 8,
				Empty:     true,
			},
		},
		{
			homeIndex: 15,
			dimension: 4,
			wantOk:    true,
			want: Tile{
				HomeIndex: 15,
				Empty:     true,
			},
		},
	}
	for i, test := range newTests {
		got, err := New(test.homeIndex, test.dimension)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case test.want != *got:
			t.Errorf("Test %v:\nwanted %v\ngot    %v", i, test.want, *got)
		}
	}
}

func TestCoordinates(t *testing.T) {
	coordinatesTests := []struct {
		i         Index
		dimension int
		wantX     X
		wantY     Y
	}{
		{0, 3, 0, 0},
		{2, 3, 2, 0},
		{3, 3, 0, 1},
		{7, 3, 1, 2},
		{8, 3, 2, 2},
		{5, 2, 1, 2},
		{11, 4, 3, 2},
	}
	for i, test := range coordinatesTests {
		gotX, gotY := Coordinates(test.i, test.dimension)
		if test.wantX != gotX || test.wantY != gotY {
			t.Errorf("Test %v: wanted (%v,%v), got (%v,%v)", i, test.wantX, test.wantY, gotX, gotY)
		}
	}
}

func TestHome(t *testing.T) {
	tl := Tile{HomeIndex: 6}
	x, y := tl.Home(4)
	if x != 2 || y != 1 {
		t.Errorf("wanted home (2,1), got (%v,%v)", x, y)
	}
}

func TestLabel(t *testing.T) {
	labelTests := []struct {
		Tile
		want string
	}{
		{Tile{HomeIndex: 0}, "1"},
		{Tile{HomeIndex: 14}, "15"},
		{Tile{HomeIndex: 15, Empty: true}, ""},
	}
	for i, test := range labelTests {
		if got := test.Tile.Label(); test.want != got {
			t.Errorf("Test %v: wanted %q, got %q", i, test.want, got)
		}
	}
}
