package sqlinline

const QCreateFeedTasks = `--sql 6d4b10e5-cd32-4b30-a527-b3cb5a54a8ef
create table if not exists feed_tasks (
  id text primary key,
  project_id text not null default '',
  status text not null,
  error text,
  video_key text,
  created_at timestamptz not null,
  updated_at timestamptz not null,
  received_at timestamptz not null default now()
);
`

const QCreateFeedNotifications = `--sql 1ff37db2-2390-464c-b8aa-25c4d4f755bf
create table if not exists feed_notifications (
  id text primary key,
  user_id text not null default '',
  task_id text not null default '',
  message text not null default '',
  status text not null,
  is_deleted boolean not null default false,
  created_at timestamptz not null,
  updated_at timestamptz not null,
  sent_at timestamptz,
  read_at timestamptz,
  received_at timestamptz not null default now()
);
`

const QUpsertFeedTask = `--sql e0ff3781-b682-45ea-b97b-9095d40b3ad1
insert into feed_tasks(id, project_id, status, error, video_key, created_at, updated_at, received_at)
values ($1::text, $2::text, $3::text, $4::text, nullif($5::text, ''), $6::timestamptz, $7::timestamptz, now())
on conflict (id) do update set
  project_id = coalesce(nullif(excluded.project_id, ''), feed_tasks.project_id),
  status = excluded.status,
  error = excluded.error,
  video_key = excluded.video_key,
  created_at = excluded.created_at,
  updated_at = excluded.updated_at,
  received_at = now();
`

const QListFeedTasks = `--sql 3df06bc1-337c-47a0-8085-709375741576
select id, project_id, status, error, coalesce(video_key, ''), created_at, updated_at
from feed_tasks
order by received_at asc, id asc;
`

const QUpsertFeedNotification = `--sql f09786a1-b9f2-4230-b519-97c723a7fd90
insert into feed_notifications(id, user_id, task_id, message, status, is_deleted, created_at, updated_at, sent_at, read_at, received_at)
values ($1::text, $2::text, $3::text, $4::text, $5::text, $6::boolean, $7::timestamptz, $8::timestamptz, $9::timestamptz, $10::timestamptz, now())
on conflict (id) do update set
  user_id = excluded.user_id,
  task_id = excluded.task_id,
  message = excluded.message,
  status = excluded.status,
  is_deleted = excluded.is_deleted,
  created_at = excluded.created_at,
  updated_at = excluded.updated_at,
  sent_at = excluded.sent_at,
  read_at = excluded.read_at,
  received_at = now();
`

const QListFeedNotifications = `--sql 250bd776-81fc-4462-96da-4c23c73d0f40
select id, user_id, task_id, message, status, is_deleted, created_at, updated_at, sent_at, read_at
from feed_notifications
order by received_at desc, id asc;
`

const QPruneFeedTasks = `--sql 298cfc41-cdd8-45cd-a325-6d56c5aa35d3
delete from feed_tasks
where status in ('finished', 'error')
  and received_at < $1::timestamptz;
`
