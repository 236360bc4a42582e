// Package repo хранит журнал запусков CSPP в Postgres.
//
// Таблица:
//
//	CREATE TABLE af_jobs (
//	    id             uuid PRIMARY KEY,
//	    service        text NOT NULL,
//	    platform       text NOT NULL,
//	    sensor         text NOT NULL,
//	    orbit_number   bigint NOT NULL DEFAULT 0,
//	    sdr_count      int NOT NULL DEFAULT 0,
//	    artifact_count int NOT NULL DEFAULT 0,
//	    status         text NOT NULL,
//	    started_at     timestamptz NOT NULL,
//	    finished_at    timestamptz
//	);
//
// Журнал — опциональная зависимость runner'а: без DB_URL система
// работает полностью, теряется только история для wildfire-cli jobs.
package repo
