package server

import (
	"net/http"
	"sort"
	"sync"

	"github.com/jrsteele09/docflow-admin/permissions"
	"github.com/jrsteele09/docflow-admin/store"
)

const (
	kindContract = permissions.KindContract
	kindTemplate = permissions.KindTemplate
)

// grants records which users may access which documents.
type grants struct {
	byDoc map[permissions.Kind]map[string]map[string]struct{} // kind -> document -> users
	lock  sync.RWMutex
}

func newGrants() *grants {
	return &grants{byDoc: map[permissions.Kind]map[string]map[string]struct{}{
		kindContract: {},
		kindTemplate: {},
	}}
}

func (g *grants) add(kind permissions.Kind, docID, userID string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	docs := g.byDoc[kind]
	if docs[docID] == nil {
		docs[docID] = make(map[string]struct{})
	}
	docs[docID][userID] = struct{}{}
}

func (g *grants) remove(kind permissions.Kind, docID, userID string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	if _, ok := g.byDoc[kind][docID][userID]; !ok {
		return false
	}
	delete(g.byDoc[kind][docID], userID)
	return true
}

func (g *grants) has(kind permissions.Kind, docID, userID string) bool {
	g.lock.RLock()
	defer g.lock.RUnlock()
	_, ok := g.byDoc[kind][docID][userID]
	return ok
}

func (g *grants) usersOf(kind permissions.Kind, docID string) []string {
	g.lock.RLock()
	defer g.lock.RUnlock()
	ids := make([]string, 0, len(g.byDoc[kind][docID]))
	for id := range g.byDoc[kind][docID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *grants) revokeUser(userID string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	for _, docs := range g.byDoc {
		for _, holders := range docs {
			delete(holders, userID)
		}
	}
}

func (g *grants) dropDocument(kind permissions.Kind, docID string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	delete(g.byDoc[kind], docID)
}

// MembersHandler lists users with their access to one document.
func (s *Server) MembersHandler(kind permissions.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := r.PathValue("id")
		all := s.userList()
		members := make([]permissions.Member, 0, len(all))
		for _, u := range all {
			members = append(members, permissions.Member{User: u, HasPermission: s.grants.has(kind, docID, string(u.ID))})
		}
		writeJSON(w, http.StatusOK, PageOf(members, ParseListQuery(r.URL.Query())))
	}
}

func (s *Server) GrantContractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var grant permissions.ContractGrant
		if err := decodeJSON(r, &grant); err != nil || grant.DocumentationID == "" {
			writeError(w, http.StatusBadRequest, "contract id is required")
			return
		}
		if _, err := s.docs.Get(grant.DocumentationID); err != nil {
			writeLookupError(w, err)
			return
		}
		for _, userID := range grant.UserIDs {
			s.grants.add(kindContract, grant.DocumentationID, userID)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) GrantTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var grant permissions.TemplateGrant
		if err := decodeJSON(r, &grant); err != nil || grant.SampleID == "" {
			writeError(w, http.StatusBadRequest, "template id is required")
			return
		}
		if _, err := s.samples.Get(grant.SampleID); err != nil {
			writeLookupError(w, err)
			return
		}
		for _, userID := range grant.UserIDs {
			s.grants.add(kindTemplate, grant.SampleID, userID)
		}
		w.WriteHeader(http.StatusOK)
	}
}

// ContractPermissionsHandler lists who can access a contract.
func (s *Server) ContractPermissionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID := r.PathValue("id")
		list := make([]permissions.Permission, 0)
		for _, userID := range s.grants.usersOf(kindContract, docID) {
			p := permissions.Permission{UserID: store.ID(userID), DocumentationID: store.ID(docID)}
			if u, err := s.users.GetByID(userID); err == nil {
				p.Username = u.Username
				p.FullName = u.FullName
			}
			list = append(list, p)
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) DeleteContractPermissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.grants.remove(kindContract, r.PathValue("contractId"), r.PathValue("userId")) {
			writeError(w, http.StatusNotFound, "permission not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
