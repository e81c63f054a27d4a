// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

// one table per message kind, payload is the json encoded message.
const (
	proposalTableSchema = `
create table if not exists proposal (
	seq integer primary key autoincrement,
	run text not null,
	node integer not null,
	timestamp integer not null,
	height integer not null,
	round integer not null,
	proposal text not null
);
create index if not exists proposalRunIndex on proposal(run, height);
`
	voteTableSchema = `
create table if not exists vote (
	seq integer primary key autoincrement,
	run text not null,
	node integer not null,
	timestamp integer not null,
	height integer not null,
	round integer not null,
	voter blob(20) not null,
	vote text not null
);
create index if not exists voteRunIndex on vote(run, height);
`
	commitTableSchema = `
create table if not exists cmt (
	seq integer primary key autoincrement,
	run text not null,
	node integer not null,
	timestamp integer not null,
	height integer not null,
	cmt text not null
);
create index if not exists cmtRunIndex on cmt(run, height);
`
	feedTableSchema = `
create table if not exists feed (
	seq integer primary key autoincrement,
	run text not null,
	node integer not null,
	timestamp integer not null,
	height integer not null,
	feed text not null
);
`
	statusTableSchema = `
create table if not exists status (
	seq integer primary key autoincrement,
	run text not null,
	node integer not null,
	timestamp integer not null,
	height integer not null,
	status text not null
);
`
)
