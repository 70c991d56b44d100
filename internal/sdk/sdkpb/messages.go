package sdkpb

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Data carries a JSON document as text (sdk.Data).
type Data struct {
	JsonString string
}

// LogBody is a single log line (sdk.LogBody).
type LogBody struct {
	Log string
}

// TableHeaderItem describes one result column (sdk.TableHeaderItem).
type TableHeaderItem struct {
	Label  string
	Key    string
	Format string
}

// TableHeader is the full, ordered column list (sdk.TableHeader).
type TableHeader struct {
	Headers []*TableHeaderItem
}

// Response is the acknowledgement returned by every push-style call (sdk.Response).
type Response struct {
	Code    int32
	Message string
}

func field(md protoreflect.MessageDescriptor, name protoreflect.Name) protoreflect.FieldDescriptor {
	return md.Fields().ByName(name)
}

func (x *Data) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(dataDesc)
	m.Set(field(dataDesc, "jsonString"), protoreflect.ValueOfString(x.JsonString))
	return m
}

func dataFromProto(m *dynamicpb.Message) *Data {
	return &Data{JsonString: m.Get(field(dataDesc, "jsonString")).String()}
}

func (x *LogBody) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(logBodyDesc)
	m.Set(field(logBodyDesc, "log"), protoreflect.ValueOfString(x.Log))
	return m
}

func logBodyFromProto(m *dynamicpb.Message) *LogBody {
	return &LogBody{Log: m.Get(field(logBodyDesc, "log")).String()}
}

func (x *TableHeader) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(tableHeaderDesc)
	list := m.Mutable(field(tableHeaderDesc, "headers")).List()
	for _, h := range x.Headers {
		if h == nil {
			continue
		}
		item := list.NewElement()
		im := item.Message()
		im.Set(field(headerItemDesc, "label"), protoreflect.ValueOfString(h.Label))
		im.Set(field(headerItemDesc, "key"), protoreflect.ValueOfString(h.Key))
		im.Set(field(headerItemDesc, "format"), protoreflect.ValueOfString(h.Format))
		list.Append(item)
	}
	return m
}

func tableHeaderFromProto(m *dynamicpb.Message) *TableHeader {
	list := m.Get(field(tableHeaderDesc, "headers")).List()
	out := &TableHeader{Headers: make([]*TableHeaderItem, 0, list.Len())}
	for i := 0; i < list.Len(); i++ {
		im := list.Get(i).Message()
		out.Headers = append(out.Headers, &TableHeaderItem{
			Label:  im.Get(field(headerItemDesc, "label")).String(),
			Key:    im.Get(field(headerItemDesc, "key")).String(),
			Format: im.Get(field(headerItemDesc, "format")).String(),
		})
	}
	return out
}

func (x *Response) toProto() *dynamicpb.Message {
	m := dynamicpb.NewMessage(responseDesc)
	m.Set(field(responseDesc, "code"), protoreflect.ValueOfInt32(x.Code))
	m.Set(field(responseDesc, "message"), protoreflect.ValueOfString(x.Message))
	return m
}

func responseFromProto(m *dynamicpb.Message) *Response {
	return &Response{
		Code:    int32(m.Get(field(responseDesc, "code")).Int()),
		Message: m.Get(field(responseDesc, "message")).String(),
	}
}
