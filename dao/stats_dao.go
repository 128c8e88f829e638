// api/dao/stats_dao.go
package dao

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
)

// StatsDAO serves the public leaderboard/summary reads and the admin CSV
// export row queries. It writes nothing, so it carries no audit service.
type StatsDAO struct {
	Driver neo4j.Driver
}

func NewStatsDAO(driver neo4j.Driver) *StatsDAO {
	return &StatsDAO{Driver: driver}
}

func (dao *StatsDAO) GetSummary(ctx context.Context) (*model.StatsSummary, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (e:EVENT)
        WHERE e.isActive = true
        OPTIONAL MATCH (u:USER)-[:ATTENDS]->(e)
        OPTIONAL MATCH (s:EVENT_SUMMARY {eventId: e.id})
        RETURN count(DISTINCT e), count(u),
               sum(coalesce(s.bagsCollected, 0)), sum(coalesce(s.durationHours, 0))
        `, nil)
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary := &model.StatsSummary{}
		if res.Next() {
			record := res.Record()
			if n, ok := record.Values[0].(int64); ok {
				summary.TotalEvents = int(n)
			}
			if n, ok := record.Values[1].(int64); ok {
				summary.TotalAttendees = int(n)
			}
			if n, ok := record.Values[2].(int64); ok {
				summary.TotalBags = int(n)
			}
			if n, ok := record.Values[3].(int64); ok {
				summary.TotalHours = int(n)
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.StatsSummary), nil
}

// TeamLeaderboard ranks teams by bags collected across events their members
// led, ties broken by completed event count.
func (dao *StatsDAO) TeamLeaderboard(ctx context.Context, limit int) ([]*model.TeamLeaderboardEntry, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)-[:MEMBER_OF]->(t:TEAM)
        WHERE t.isActive = true
        MATCH (u)-[r:ATTENDS]->(e:EVENT)
        WHERE r.isLead = true
        MATCH (s:EVENT_SUMMARY {eventId: e.id})
        RETURN t.id, t.name, sum(s.bagsCollected), count(DISTINCT e)
        ORDER BY sum(s.bagsCollected) DESC, count(DISTINCT e) DESC
        LIMIT $limit
        `, map[string]interface{}{"limit": limit})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var entries []*model.TeamLeaderboardEntry
		for res.Next() {
			record := res.Record()
			entry := &model.TeamLeaderboardEntry{}
			if id, ok := record.Values[0].(string); ok {
				entry.TeamID = id
			}
			if name, ok := record.Values[1].(string); ok {
				entry.TeamName = name
			}
			if n, ok := record.Values[2].(int64); ok {
				entry.BagsCollected = int(n)
			}
			if n, ok := record.Values[3].(int64); ok {
				entry.EventsCompleted = int(n)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.TeamLeaderboardEntry), nil
}

// AdoptionRows returns one row per active area under the partner with its
// adopting team, for the community adoption CSV export.
func (dao *StatsDAO) AdoptionRows(ctx context.Context, partnerID string) ([][]string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (a:AREA)-[:BELONGS_TO]->(p:PARTNER {id: $partnerId})
        WHERE a.isActive = true
        OPTIONAL MATCH (t:TEAM {id: a.adoptedByTeamId})
        RETURN a.name, coalesce(t.name, ''), a.createdDate
        ORDER BY a.name
        `, map[string]interface{}{"partnerId": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return collectStringRows(res), nil
	})
	if err != nil {
		return nil, err
	}
	return result.([][]string), nil
}

// SponsorCleanupRows returns one row per completed event summary under the
// sponsor's partner, for the sponsor cleanup-log CSV export.
func (dao *StatsDAO) SponsorCleanupRows(ctx context.Context, partnerID string) ([][]string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (e:EVENT {partnerId: $partnerId})
        MATCH (s:EVENT_SUMMARY {eventId: e.id})
        RETURN e.name, e.startDate, toString(s.bagsCollected),
               toString(s.attendeeCount), toString(s.durationHours)
        ORDER BY e.startDate DESC
        `, map[string]interface{}{"partnerId": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return collectStringRows(res), nil
	})
	if err != nil {
		return nil, err
	}
	return result.([][]string), nil
}

func collectStringRows(res neo4j.Result) [][]string {
	var rows [][]string
	for res.Next() {
		record := res.Record()
		row := make([]string, len(record.Values))
		for i, v := range record.Values {
			if s, ok := v.(string); ok {
				row[i] = s
			}
		}
		rows = append(rows, row)
	}
	return rows
}
