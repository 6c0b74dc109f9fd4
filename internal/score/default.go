package score

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"git.lost.host/meutraa/keytap/internal/game"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DBStore keeps results in a sqlite database.
type DBStore struct {
	Path string

	db *sql.DB
}

func (s *DBStore) Init() error {
	db, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists scores
	  (
		  id text not null primary key,
		  sum text not null,
		  rank text,
		  score integer,
		  accuracy real,
		  max_combo integer,
		  greats integer,
		  goods integer,
		  oks integer,
		  misses integer,
		  speed real,
		  approach_time real,
		  date text,
		  inputs blob
	  );
	create index if not exists scores_sum on scores(sum);
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create score table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DBStore) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DBStore) Save(b *game.Beatmap, result *Result) error {
	if nil == s.db {
		return errors.New("score database is not open")
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Date.IsZero() {
		result.Date = time.Now()
	}
	result.Beatmap = Checksum(b)

	data, err := json.Marshal(compactInputs(result.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec(
		`insert into scores(id, sum, rank, score, accuracy, max_combo, greats, goods, oks, misses, speed, approach_time, date, inputs)
		 values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Beatmap, string(result.Rank), result.Score, result.Accuracy, result.MaxCombo,
		result.Greats, result.Goods, result.OKs, result.Misses, result.Speed, result.ApproachTime,
		result.Date.UTC().Format(time.RFC3339Nano), data,
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

func (s *DBStore) Load(b *game.Beatmap) ([]Result, error) {
	if nil == s.db {
		return nil, errors.New("score database is not open")
	}
	results := []Result{}
	rows, err := s.db.Query(
		`select id, sum, rank, score, accuracy, max_combo, greats, goods, oks, misses, speed, approach_time, date, inputs
		 from scores where sum = ? order by score desc`, Checksum(b))
	if nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r Result
		var rank, date string
		var inputs []byte
		if err := rows.Scan(&r.ID, &r.Beatmap, &rank, &r.Score, &r.Accuracy, &r.MaxCombo,
			&r.Greats, &r.Goods, &r.OKs, &r.Misses, &r.Speed, &r.ApproachTime, &date, &inputs); nil != err {
			log.Warn("unable to read score row", "err", err)
			continue
		}
		r.Rank = game.Rank(rank)
		r.Date, err = time.Parse(time.RFC3339Nano, date)
		if nil != err {
			log.Warn("unable to parse score date", "id", r.ID, "date", date)
		}
		var ns []InputsCompact
		if err := json.Unmarshal(inputs, &ns); nil != err {
			log.Warn("unable to unmarshal input history", "id", r.ID, "err", err)
		} else {
			r.Inputs = uncompactInputs(ns)
		}
		results = append(results, r)
	}
	if err := rows.Err(); nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	SortByScore(results)
	return results, nil
}
