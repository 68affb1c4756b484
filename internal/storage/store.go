package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	sourcesBucket  = []byte("sources")
	articlesBucket = []byte("articles")
	guidsBucket    = []byte("article_guids")
	metaBucket     = []byte("meta")
)

var lastSyncKey = []byte("last_sync")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{sourcesBucket, articlesBucket, guidsBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSource persists a source, assigning a sequence ID when it has none.
func (s *Store) SaveSource(source *Source) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourcesBucket)
		if source.ID == 0 {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			source.ID = int64(seq)
		}
		data, err := json.Marshal(source)
		if err != nil {
			return err
		}
		return b.Put(itob(source.ID), data)
	})
}

func (s *Store) Source(id int64) (*Source, error) {
	var source Source
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourcesBucket)
		data := b.Get(itob(id))
		if data == nil {
			return fmt.Errorf("source not found")
		}
		return json.Unmarshal(data, &source)
	})
	return &source, err
}

// Sources returns every source in insertion order. Big-endian sequence keys
// make bucket order and ID order the same thing.
func (s *Store) Sources() ([]*Source, error) {
	var sources []*Source
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sourcesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var source Source
			if err := json.Unmarshal(v, &source); err != nil {
				return err
			}
			sources = append(sources, &source)
			return nil
		})
	})
	return sources, err
}

// DeleteSource removes a source together with its articles and GUID index
// entries.
func (s *Store) DeleteSource(id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(sourcesBucket).Delete(itob(id)); err != nil {
			return err
		}

		ab := tx.Bucket(articlesBucket)
		c := ab.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				continue
			}
			if article.SourceID == id {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}

		gb := tx.Bucket(guidsBucket)
		gc := gb.Cursor()
		prefix := guidPrefix(id)
		for k, _ := gc.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = gc.Next() {
			if err := gc.Delete(); err != nil {
				return err
			}
		}

		return nil
	})
}

// UpsertArticles stores fetched articles, deduplicating by (source, GUID).
// Re-fetched articles keep their ID and their Read/Starred flags. Returns the
// number of articles that were new.
func (s *Store) UpsertArticles(articles []*Article) (int, error) {
	var added int
	err := s.db.Update(func(tx *bolt.Tx) error {
		ab := tx.Bucket(articlesBucket)
		gb := tx.Bucket(guidsBucket)
		for _, article := range articles {
			key := guidKey(article.SourceID, article.GUID)
			if idBytes := gb.Get(key); idBytes != nil {
				article.ID = btoi(idBytes)
				if data := ab.Get(itob(article.ID)); data != nil {
					var existing Article
					if err := json.Unmarshal(data, &existing); err == nil {
						article.Read = existing.Read
						article.Starred = existing.Starred
					}
				}
			} else {
				seq, err := ab.NextSequence()
				if err != nil {
					return err
				}
				article.ID = int64(seq)
				added++
			}

			data, err := json.Marshal(article)
			if err != nil {
				return err
			}
			if err := ab.Put(itob(article.ID), data); err != nil {
				return err
			}
			if err := gb.Put(key, itob(article.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	return added, err
}

func (s *Store) Article(id int64) (*Article, error) {
	var article Article
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		data := b.Get(itob(id))
		if data == nil {
			return fmt.Errorf("article not found")
		}
		return json.Unmarshal(data, &article)
	})
	return &article, err
}

// ArticlePage returns one page of articles matching the query.
func (s *Store) ArticlePage(ctx context.Context, q PageQuery) ([]*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var articles []*Article
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if q.SourceID == 0 || article.SourceID == q.SourceID {
				articles = append(articles, &article)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortArticles(articles, q.SortBy, q.Order)

	if q.Offset > 0 {
		if q.Offset >= len(articles) {
			return nil, nil
		}
		articles = articles[q.Offset:]
	}
	if q.Limit > 0 && len(articles) > q.Limit {
		articles = articles[:q.Limit]
	}
	return articles, nil
}

// InitialAggregate builds the balanced first page of the all-sources feed: up
// to perSourceLimit newest articles from each source, merged newest first. A
// quiet source cannot be drowned out by a busy one this way.
func (s *Store) InitialAggregate(ctx context.Context, perSourceLimit int) ([]*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bySource := make(map[int64][]*Article)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			bySource[article.SourceID] = append(bySource[article.SourceID], &article)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	var merged []*Article
	for _, group := range bySource {
		sortArticles(group, SortByPublished, SortDesc)
		if perSourceLimit > 0 && len(group) > perSourceLimit {
			group = group[:perSourceLimit]
		}
		merged = append(merged, group...)
	}
	sortArticles(merged, SortByPublished, SortDesc)
	return merged, nil
}

func (s *Store) CountArticles(sourceID int64) (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var article Article
			if err := json.Unmarshal(v, &article); err != nil {
				return nil
			}
			if sourceID == 0 || article.SourceID == sourceID {
				count++
			}
			return nil
		})
	})
	return count, err
}

func (s *Store) MarkArticleRead(id int64, read bool) error {
	return s.updateArticle(id, func(article *Article) {
		article.Read = read
	})
}

func (s *Store) MarkArticleStarred(id int64, starred bool) error {
	return s.updateArticle(id, func(article *Article) {
		article.Starred = starred
	})
}

func (s *Store) updateArticle(id int64, apply func(*Article)) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)
		data := b.Get(itob(id))
		if data == nil {
			return fmt.Errorf("article not found")
		}

		var article Article
		if err := json.Unmarshal(data, &article); err != nil {
			return err
		}

		apply(&article)

		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		return b.Put(itob(id), data)
	})
}

func (s *Store) SetLastSync(t time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := t.MarshalText()
		if err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(lastSyncKey, data)
	})
}

func (s *Store) LastSync() (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(lastSyncKey)
		if data == nil {
			return nil
		}
		return t.UnmarshalText(data)
	})
	return t, err
}

func sortArticles(articles []*Article, by SortField, order SortOrder) {
	sort.SliceStable(articles, func(i, j int) bool {
		switch by {
		case SortByTitle:
			ti := strings.ToLower(articles[i].Title)
			tj := strings.ToLower(articles[j].Title)
			if order == SortAsc {
				return ti < tj
			}
			return ti > tj
		default:
			if order == SortAsc {
				return articles[i].Published.Before(articles[j].Published)
			}
			return articles[i].Published.After(articles[j].Published)
		}
	})
}

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func guidKey(sourceID int64, guid string) []byte {
	return []byte(fmt.Sprintf("%d/%s", sourceID, guid))
}

func guidPrefix(sourceID int64) []byte {
	return []byte(fmt.Sprintf("%d/", sourceID))
}
