// Package sqlinline holds the labelled SQL used by the stub service's
// Postgres job store. Each query starts with a `-- name:` line the runner
// logs it by.
package sqlinline

const QCreateJobsTable = `-- name: create_jobs_table
create table if not exists stub_jobs (
    id            text primary key,
    status        text not null,
    progress      int  not null default 0,
    step          text not null,
    error_message text not null default '',
    document_type text not null,
    description   text not null,
    length        int  not null,
    use_watermark boolean not null default false,
    statistics    jsonb not null default '[]'::jsonb,
    design        jsonb not null default '{}'::jsonb,
    has_logo      boolean not null default false,
    created_at    timestamptz not null default now()
)`

const QInsertJob = `-- name: insert_job
insert into stub_jobs
    (id, status, progress, step, error_message, document_type, description, length, use_watermark, statistics, design, has_logo, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const QSelectJob = `-- name: select_job
select id, status, progress, step, error_message, document_type, description, length, use_watermark, statistics, design, has_logo, created_at
from stub_jobs
where id = $1`

const QUpdateJob = `-- name: update_job
update stub_jobs
set status = $2, progress = $3, step = $4, error_message = $5
where id = $1`
