package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estate_market/internal/domain"
)

type Repo struct{ db *driver.Database }

func New(db *driver.Database) *Repo { return &Repo{db: db} }

// Connect dials uri and verifies the deployment is reachable.
func Connect(ctx context.Context, uri string) (*driver.Client, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cli, err := driver.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, eris.Wrap(err, "mongo connect")
	}
	if err := cli.Ping(cctx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, eris.Wrap(err, "mongo ping")
	}
	return cli, nil
}

// EnsureIndexes creates the indexes backing the list sort orders.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	idx := map[string]bson.D{
		propertiesColl: {{Key: "createdAt", Value: -1}},
		leadsColl:      {{Key: "createdAt", Value: -1}},
		siteVisitsColl: {{Key: "date", Value: 1}},
	}
	for coll, keys := range idx {
		if _, err := r.db.Collection(coll).Indexes().CreateOne(ctx, driver.IndexModel{Keys: keys}); err != nil {
			return eris.Wrapf(err, "index %s", coll)
		}
	}
	return nil
}

// Reset removes every document from the marketplace collections.
func (r *Repo) Reset(ctx context.Context) error {
	for _, name := range []string{propertiesColl, leadsColl, siteVisitsColl} {
		if _, err := r.c(name).DeleteMany(ctx, bson.M{}); err != nil {
			return eris.Wrapf(err, "clear %s", name)
		}
	}
	return nil
}

func (r *Repo) c(name string) *driver.Collection { return r.db.Collection(name) }

func notFound(err error) error {
	if errors.Is(err, driver.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}

// ---- properties ----

func (r *Repo) CreateProperty(ctx context.Context, p domain.Property) (domain.Property, error) {
	doc := toPropertyDoc(p)
	doc.ID = primitive.NewObjectID()
	if _, err := r.c(propertiesColl).InsertOne(ctx, doc); err != nil {
		return domain.Property{}, eris.Wrap(err, "insert property")
	}
	return doc.domain(), nil
}

func (r *Repo) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Property{}, err
	}
	var doc propertyDoc
	if err := r.findAndSet(ctx, propertiesColl, oid, propertySet(patch), &doc); err != nil {
		return domain.Property{}, err
	}
	return doc.domain(), nil
}

func (r *Repo) DeleteProperty(ctx context.Context, id string) error {
	return r.deleteByID(ctx, propertiesColl, id)
}

func (r *Repo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	var docs []propertyDoc
	if err := r.findAll(ctx, propertiesColl, bson.M{}, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Property, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.domain())
	}
	return out, nil
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Property{}, err
	}
	var doc propertyDoc
	if err := r.c(propertiesColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.Property{}, notFound(err)
	}
	return doc.domain(), nil
}

// ---- leads ----

func (r *Repo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	doc, err := toLeadDoc(l)
	if err != nil {
		return domain.Lead{}, err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.c(leadsColl).InsertOne(ctx, doc); err != nil {
		return domain.Lead{}, eris.Wrap(err, "insert lead")
	}
	return doc.domain(), nil
}

func (r *Repo) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (domain.Lead, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Lead{}, err
	}
	set, err := leadSet(patch)
	if err != nil {
		return domain.Lead{}, err
	}
	var doc leadDoc
	if err := r.findAndSet(ctx, leadsColl, oid, set, &doc); err != nil {
		return domain.Lead{}, err
	}
	return doc.domain(), nil
}

func (r *Repo) DeleteLead(ctx context.Context, id string) error {
	return r.deleteByID(ctx, leadsColl, id)
}

func (r *Repo) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	var docs []leadDoc
	if err := r.findAll(ctx, leadsColl, bson.M{}, opts, &docs); err != nil {
		return nil, err
	}
	var refs []primitive.ObjectID
	for _, d := range docs {
		if d.PropertyID != nil {
			refs = append(refs, *d.PropertyID)
		}
	}
	props, err := r.lookupProperties(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lead, 0, len(docs))
	for _, d := range docs {
		l := d.domain()
		if d.PropertyID != nil {
			l.PropertyID = populate(props, *d.PropertyID)
		}
		out = append(out, l)
	}
	return out, nil
}

// ---- site visits ----

func (r *Repo) CreateSiteVisit(ctx context.Context, v domain.SiteVisit) (domain.SiteVisit, error) {
	doc, err := toSiteVisitDoc(v)
	if err != nil {
		return domain.SiteVisit{}, err
	}
	doc.ID = primitive.NewObjectID()
	if _, err := r.c(siteVisitsColl).InsertOne(ctx, doc); err != nil {
		return domain.SiteVisit{}, eris.Wrap(err, "insert site visit")
	}
	return doc.domain(), nil
}

func (r *Repo) UpdateSiteVisit(ctx context.Context, id string, patch domain.SiteVisitPatch) (domain.SiteVisit, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.SiteVisit{}, err
	}
	set, err := siteVisitSet(patch)
	if err != nil {
		return domain.SiteVisit{}, err
	}
	var doc siteVisitDoc
	if err := r.findAndSet(ctx, siteVisitsColl, oid, set, &doc); err != nil {
		return domain.SiteVisit{}, err
	}
	return doc.domain(), nil
}

func (r *Repo) DeleteSiteVisit(ctx context.Context, id string) error {
	return r.deleteByID(ctx, siteVisitsColl, id)
}

func (r *Repo) ListSiteVisits(ctx context.Context) ([]domain.SiteVisit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	var docs []siteVisitDoc
	if err := r.findAll(ctx, siteVisitsColl, bson.M{}, opts, &docs); err != nil {
		return nil, err
	}
	refs := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, d.PropertyID)
	}
	props, err := r.lookupProperties(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SiteVisit, 0, len(docs))
	for _, d := range docs {
		v := d.domain()
		v.PropertyID = populate(props, d.PropertyID)
		out = append(out, v)
	}
	return out, nil
}

// ---- shared helpers ----

func (r *Repo) findAll(ctx context.Context, coll string, filter any, opts *options.FindOptions, dst any) error {
	cur, err := r.c(coll).Find(ctx, filter, opts)
	if err != nil {
		return eris.Wrapf(err, "find %s", coll)
	}
	if err := cur.All(ctx, dst); err != nil {
		return eris.Wrapf(err, "decode %s", coll)
	}
	return nil
}

// findAndSet applies set to the document and decodes the post-update state.
// An empty set returns the document unchanged.
func (r *Repo) findAndSet(ctx context.Context, coll string, oid primitive.ObjectID, set bson.M, dst any) error {
	var res *driver.SingleResult
	if len(set) == 0 {
		res = r.c(coll).FindOne(ctx, bson.M{"_id": oid})
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		res = r.c(coll).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts)
	}
	if err := res.Decode(dst); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return eris.Wrapf(err, "update %s", coll)
	}
	return nil
}

func (r *Repo) deleteByID(ctx context.Context, coll, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.c(coll).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return eris.Wrapf(err, "delete %s", coll)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// lookupProperties loads the referenced listings in one $in query.
func (r *Repo) lookupProperties(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Property, error) {
	out := make(map[primitive.ObjectID]domain.Property, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var docs []propertyDoc
	if err := r.findAll(ctx, propertiesColl, bson.M{"_id": bson.M{"$in": dedupe(ids)}}, options.Find(), &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.domain()
	}
	return out, nil
}

func populate(props map[primitive.ObjectID]domain.Property, oid primitive.ObjectID) domain.PropertyRef {
	if p, ok := props[oid]; ok {
		return domain.PropertyRef{ID: p.ID, Property: &p}
	}
	return domain.Ref(oid.Hex())
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
