package service

import (
	"context"
	"testing"

	"github.com/deppfellow/labstore/internal/model/space"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceService_GetTopAstronaut(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewSpaceService(repos.Space, nil)

	columns := []string{"name", "missions_count"}
	mock.ExpectQuery(`FROM astronauts a LEFT JOIN mission_astronauts ma ON ma.astronaut_id = a.id GROUP BY a.id ORDER BY missions_count DESC, a.phone_number ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(columns))
	mock.ExpectQuery(`FROM astronauts a LEFT JOIN mission_astronauts`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Yuri Gagarin", 0))
	mock.ExpectQuery(`FROM astronauts a LEFT JOIN mission_astronauts`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Yuri Gagarin", 2))

	out, err := svc.GetTopAstronaut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, space.NoData, out)

	out, err = svc.GetTopAstronaut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, space.NoData, out)

	out, err = svc.GetTopAstronaut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Top Astronaut: Yuri Gagarin with 2 missions.", out)
}

func TestSpaceService_GetLastCompletedMission(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewSpaceService(repos.Space, nil)

	mock.ExpectQuery(`FROM missions m JOIN spacecrafts s ON s.id = m.spacecraft_id LEFT JOIN astronauts c ON c.id = m.commander_id WHERE m.status = \$1 ORDER BY m.launch_date DESC, m.id DESC LIMIT 1`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "has_commander", "commander", "spacecraft"}).
			AddRow(int64(3), "Apollo 11", false, "", "Columbia"))
	mock.ExpectQuery(`SELECT a.name FROM mission_astronauts ma JOIN astronauts a ON a.id = ma.astronaut_id WHERE ma.mission_id = \$1 ORDER BY a.name ASC`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Buzz Aldrin").AddRow("Neil Armstrong"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(a.spacewalks\), 0\) FROM mission_astronauts ma`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(5))

	out, err := svc.GetLastCompletedMission(context.Background())
	require.NoError(t, err)
	assert.Equal(t,
		"The last completed mission is: Apollo 11. Commander: TBA. Astronauts: Buzz Aldrin, Neil Armstrong. Spacecraft: Columbia. Total spacewalks: 5.",
		out)
}

func TestSpaceService_GetMostUsedSpacecraft(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewSpaceService(repos.Space, nil)

	mock.ExpectQuery(`FROM spacecrafts s LEFT JOIN missions m ON m.spacecraft_id = s.id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "manufacturer", "missions_count"}).
			AddRow(int64(1), "Dragon", "SpaceX", 4))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT ma.astronaut_id\) FROM missions m`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	out, err := svc.GetMostUsedSpacecraft(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The most used spacecraft is: Dragon, manufactured by SpaceX, used in 4 missions, astronauts on missions: 7.", out)
}

func TestSpaceService_DecreaseSpacecraftsWeight(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewSpaceService(repos.Space, nil)

	mock.ExpectExec(`UPDATE spacecrafts SET weight = weight - \$1 WHERE weight >= \$2 AND id IN`).
		WithArgs(space.WeightReduction, space.WeightReduction, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	out, err := svc.DecreaseSpacecraftsWeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No changes in weight.", out)

	mock.ExpectExec(`UPDATE spacecrafts SET weight`).
		WithArgs(space.WeightReduction, space.WeightReduction, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectQuery(`SELECT COALESCE\(AVG\(weight\), 0\) FROM spacecrafts`).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(1234.56))

	out, err = svc.DecreaseSpacecraftsWeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The weight of 2 spacecrafts has been decreased. The new average weight of all spacecrafts is 1234.6kg", out)
}

func TestSpaceService_GetAstronauts_NilSearch(t *testing.T) {
	_, repos := newMock(t)
	svc := NewSpaceService(repos.Space, nil)

	out, err := svc.GetAstronauts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSpaceService_GetTopCommander(t *testing.T) {
	mock, repos := newMock(t)
	svc := NewSpaceService(repos.Space, nil)

	columns := []string{"name", "commanded_count"}
	mock.ExpectQuery(`FROM astronauts a LEFT JOIN missions m ON m.commander_id = a.id GROUP BY a.id ORDER BY commanded_count DESC, a.phone_number ASC LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Neil Armstrong", 0))
	mock.ExpectQuery(`FROM astronauts a LEFT JOIN missions m`).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Neil Armstrong", 2))

	out, err := svc.GetTopCommander(context.Background())
	require.NoError(t, err)
	assert.Equal(t, space.NoData, out)

	out, err = svc.GetTopCommander(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Top Commander: Neil Armstrong with 2 commanded missions.", out)
}
